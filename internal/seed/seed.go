// Package seed fills the in-process store with demo data so a fresh
// instance shows a populated week instead of an empty grid.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/store/memory"
)

type participant struct {
	id   uuid.UUID
	name string
}

func newParticipants(names ...string) []participant {
	out := make([]participant, 0, len(names))
	for _, n := range names {
		out = append(out, participant{id: uuid.New(), name: n})
	}
	return out
}

// Demo registers a small catalog and books appointments across the
// current and the next week. Idempotence is not a concern: the memory
// store starts empty on every boot.
func Demo(ctx context.Context, st *memory.Store, now time.Time) error {
	children := newParticipants("Sam Carter", "Lena Ruiz", "Theo Park")
	therapists := newParticipants("Dr. Imani Cole", "Dr. Victor Haas")
	therapies := newParticipants("Speech Therapy", "Occupational Therapy", "Physical Therapy")

	for _, c := range children {
		st.RegisterChild(c.id, c.name)
	}
	for _, t := range therapists {
		st.RegisterTherapist(t.id, t.name)
	}
	for _, t := range therapies {
		st.RegisterTherapy(t.id, t.name)
	}

	monday := calendar.WeekStart(now)

	slots := []struct {
		week    int // 0 = current, 1 = next
		weekday int // ISO, Monday=1
		start   string
		end     string
		child   int
		ther    int
		therapy int
	}{
		{0, 1, "09:00", "10:00", 0, 0, 0},
		{0, 1, "10:30", "11:30", 1, 1, 1},
		{0, 3, "09:00", "10:00", 0, 0, 0},
		{0, 4, "14:00", "15:00", 2, 1, 2},
		{0, 6, "11:00", "12:00", 1, 0, 1},
		{1, 1, "09:00", "10:00", 0, 0, 0},
		{1, 5, "15:00", "16:30", 2, 1, 2},
	}

	for _, s := range slots {
		date := monday.AddDate(0, 0, 7*s.week+s.weekday-1)
		spec := model.Spec{
			ChildID:     children[s.child].id,
			TherapistID: therapists[s.ther].id,
			TherapyID:   therapies[s.therapy].id,
			Date:        date,
			StartTime:   s.start,
			EndTime:     s.end,
			Status:      model.StatusScheduled,
		}
		if _, err := st.Create(ctx, spec); err != nil {
			return fmt.Errorf("seed appointment on %s: %w", calendar.DateKey(date), err)
		}
	}

	slog.Info("demo data seeded",
		"children", len(children),
		"therapists", len(therapists),
		"appointments", st.Len(),
	)
	return nil
}
