package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/peyvandtech/darmana/cmd/http"
	systemcmd "github.com/peyvandtech/darmana/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "darmana",
	Short: "Darmana weekly scheduling engine for child therapy practices.",
	Long: `Darmana is the scheduling backend for child therapy practices.
It serves the weekly calendar grid, expands recurring session series and
tracks each appointment through its scheduling lifecycle.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
