package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depbump/depbump/pkg/config"
)

var (
	flagVerbose bool

	// DevCfg holds the resolved operator configuration, available to all
	// subcommands after PersistentPreRunE completes.
	DevCfg *config.DevConfig
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "depbump",
		Short: "Dependency manifest updater",
		Long:  "depbump rewrites dependency manifests by driving the ecosystem's own tooling and reconciling its output against the original files.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDevConfig(flagVerbose)
			if err != nil {
				return err
			}
			DevCfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInitCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newSourcesCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a logger with timestamp formatting, filtering at debug
// level when verbose mode is on (flag or operator config).
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if flagVerbose || (DevCfg != nil && DevCfg.Verbose) {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
