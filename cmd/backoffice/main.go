// Command backoffice runs the back-office API server and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginternational/backoffice/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "backoffice",
		Short:        "Back-office API server with audit trail",
		Version:      config.Version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	serveCmd := newServeCmd()
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and builds the process logger from it.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	return cfg, newLogger(cfg.LogLevel), nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q, using info\n", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
