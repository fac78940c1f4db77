package cmd

import (
	"fmt"
	"log"
	"os"

	"routernav/internal/events"
	"routernav/internal/session"

	"github.com/spf13/cobra"
)

var traceFlag bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured navigation script",
	Long:  "Executes every script step through the interceptor and prints the route events each one produces. Vetoed pages are cancelled.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := session.New(cfg, session.Options{Out: os.Stdout, Trace: traceFlag})
		if err != nil {
			return err
		}
		defer s.Close()

		log.Printf("run: %s, %d steps", cfg.ProjectName, len(cfg.Script))
		if err := s.RunScript(cmd.Context()); err != nil {
			events.AppBus.Publish(events.EventShutdownRequested, err.Error())
			return err
		}

		completed, cancelled := s.Stats()
		fmt.Printf("\n%d completed, %d cancelled, now on %s\n", completed, cancelled, s.Current())
		events.AppBus.Publish(events.EventSessionCompleted, completed)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&traceFlag, "trace", false, "print every protocol phase")
}
