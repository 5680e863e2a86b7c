// Command demo runs a layered compositor scene: a shadowed world screen, a
// HUD overlay, and a pause dialog that reads the frame beneath it through the
// post-process chain.
package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"screen-compositor/config"
)

func newLogger(level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		width   int
		height  int
		vsync   bool
		verbose bool
	)

	root := &cobra.Command{
		Use:          "demo",
		Short:        "Layered screen compositor demo",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(level)

			cfg := config.Default()
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("width") {
				cfg.Window.Width = width
			}
			if cmd.Flags().Changed("height") {
				cfg.Window.Height = height
			}
			if cmd.Flags().Changed("vsync") {
				cfg.Window.VSync = vsync
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, logger)
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "path to a TOML config file")
	root.Flags().IntVar(&width, "width", 1280, "window width")
	root.Flags().IntVar(&height, "height", 720, "window height")
	root.Flags().BoolVar(&vsync, "vsync", true, "wait for vertical sync")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
