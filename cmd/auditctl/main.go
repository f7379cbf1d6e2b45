package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ginternational/backoffice/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient *client.Client
	flagURL   string
	flagToken string
	flagFmt   string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("auditctl version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("auditctl version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "auditctl",
		Short:   "Query the back-office audit trail and manage accounts",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagToken != "" {
				opts = append(opts, client.WithToken(flagToken))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Back-office server URL (env: AUDITCTL_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token (env: AUDITCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // no client needed

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newUserCmd())

	return rootCmd
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".auditctl", "config.yaml"), nil
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("AUDITCTL_URL"); v != "" {
			flagURL = v
		}
	}
	if flagToken == "" {
		flagToken = os.Getenv("AUDITCTL_TOKEN")
	}

	cfgPath, err := configPath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	resolvedURL := cfg.URL
	resolvedToken := cfg.Token
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.Token != "" {
				resolvedToken = p.Token
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagToken == "" && resolvedToken != "" {
		flagToken = resolvedToken
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
