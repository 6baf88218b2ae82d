package system

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/recurrence"
)

// NewExpandCommand prints the occurrences a recurrence rule would
// generate, without touching any store. Useful for sanity-checking a
// series before booking it.
func NewExpandCommand() *cobra.Command {
	var (
		start     string
		weekdays  []int
		startTime string
		endTime   string
		weeks     int
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Dry-run a recurrence rule and print its occurrences",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if start != "" {
				var err error
				ref, err = time.Parse(calendar.DateKeyLayout, start)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
			}

			occurrences, err := recurrence.Expand(recurrence.Request{
				StartDate: ref,
				Weekdays:  weekdays,
				StartTime: startTime,
				EndTime:   endTime,
				WeekCount: weeks,
			})
			if err != nil {
				return err
			}

			for _, occ := range occurrences {
				fmt.Printf("%s  %s  %s-%s\n",
					occ.Date.Weekday(), calendar.DateKey(occ.Date), occ.StartTime, occ.EndTime)
			}
			fmt.Printf("%d occurrences\n", len(occurrences))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "series start date (YYYY-MM-DD, default today)")
	cmd.Flags().IntSliceVar(&weekdays, "weekdays", nil, "weekdays to book, Monday=1 .. Saturday=6")
	cmd.Flags().StringVar(&startTime, "start-time", "09:00", "session start (HH:MM)")
	cmd.Flags().StringVar(&endTime, "end-time", "10:00", "session end (HH:MM)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "number of weeks to generate")

	return cmd
}
