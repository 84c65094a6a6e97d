package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/i18n"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "qskema: %v\n", err)
		os.Exit(2)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg Config) *cobra.Command {
	var log *zap.Logger
	root := &cobra.Command{
		Use:   "qskema",
		Short: "Decode and encode URL query strings against a typed schema",
		Long: `qskema reads a YAML schema file and converts between query strings and
typed JSON records using the same rules a browser URLSearchParams does.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			log = l
			qskema.SetLogger(log)
			i18n.SetLanguage(cfg.Lang)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfg.Lang, "lang", cfg.Lang, "message language (en, ja)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		decodeCmd(),
		encodeCmd(),
		instructionsCmd(),
	)
	return root
}
