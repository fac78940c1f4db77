package cmd

import (
	"fmt"

	"routernav/internal/events"

	"github.com/spf13/cobra"
)

var payloads = map[events.Kind]string{
	events.RouteStart:    "link (empty for back, forward, refresh)",
	events.RouteComplete: "link, same value as routeStart",
	events.RouteError:    "error returned or panicked by the navigation",
}

var eventsCmd = &cobra.Command{
	Use:   "events [kind]",
	Short: "List route event kinds and their payloads",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := events.Kinds()
		if len(args) == 1 {
			k, err := events.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []events.Kind{k}
		}
		for _, k := range kinds {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", k, payloads[k])
		}
		return nil
	},
}
