package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"routernav/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "routernav",
	Short: "Navigation with route events",
	Long: `Runs a page history through an interceptor that emits routeStart,
routeComplete and routeError around every push, replace, back, forward,
refresh and prefetch. Start with 'routernav init', then 'routernav run'
or 'routernav browse'.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Println("Config file not found")
			fmt.Println("USAGE:")
			fmt.Println("Make sure you have the config file by running.")
			fmt.Println("routernav init")
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "path to the configuration file")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(eventsCmd)
}

// LogFile returns the log_file of the configuration selected by
// -c/--config in args, before cobra parses them. It falls back to the
// default when that configuration cannot be loaded.
func LogFile(args []string) string {
	fs := pflag.NewFlagSet("routernav", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.StringP("config", "c", config.ConfigFileName, "")
	_ = fs.Parse(args)

	if cfg, err := config.LoadFile(*path); err == nil {
		return cfg.LogFile
	}
	return config.DefaultLogFile
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// ExecuteContext allows running the root command with a supplied context for cancellation.
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}
