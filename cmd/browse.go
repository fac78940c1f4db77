package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"routernav/internal/config"
	"routernav/internal/events"
	"routernav/internal/session"
	"routernav/internal/tui"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const actionQuit = "quit"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Navigate pages interactively",
	Long:  "Pick pages or history actions from a menu. Navigating to a vetoed page asks for confirmation first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("browse needs an interactive terminal, use 'routernav run' instead")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := session.New(cfg, session.Options{Confirm: confirmLeave, Trace: traceFlag})
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				fmt.Println("⏹ Cancelled")
				return nil
			default:
			}

			choice, err := tui.ShowMenu(browseItems(cfg), "On "+s.Current(), s.Recent())
			if err != nil {
				return err
			}
			if choice == tui.Cancelled || choice == actionQuit {
				break
			}
			op, href, _ := strings.Cut(choice, " ")
			if err := s.Do(config.Step{Op: op, Href: href}); err != nil {
				return err
			}
		}

		completed, cancelled := s.Stats()
		fmt.Printf("%d completed, %d cancelled, now on %s\n", completed, cancelled, s.Current())
		events.AppBus.Publish(events.EventSessionCompleted, completed)
		return nil
	},
}

func init() {
	browseCmd.Flags().BoolVar(&traceFlag, "trace", false, "print every protocol phase")
}

func browseItems(cfg *config.Config) []tui.Item {
	items := make([]tui.Item, 0, len(cfg.Pages)+4)
	for _, p := range cfg.Pages {
		label := p.Title
		if label == "" {
			label = p.Href
		}
		if cfg.Vetoed(p.Href) {
			label += " *"
		}
		items = append(items, tui.Item{Label: label, Value: "push " + p.Href})
	}
	return append(items,
		tui.Item{Label: "← Back", Value: "back"},
		tui.Item{Label: "→ Forward", Value: "forward"},
		tui.Item{Label: "⟳ Refresh", Value: "refresh"},
		tui.Item{Label: "Quit", Value: actionQuit},
	)
}

// confirmLeave asks before navigating to a vetoed page.
func confirmLeave(href string) bool {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s is protected, navigate anyway", href),
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}
