package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ginternational/backoffice/client"
)

func newInitCmd() *cobra.Command {
	var profile string
	var skipCheck bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save the server URL and token to ~/.auditctl/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagToken == "" {
				flagToken = os.Getenv("AUDITCTL_TOKEN")
			}
			if flagToken == "" {
				return fmt.Errorf("a token is required: pass --token or set AUDITCTL_TOKEN")
			}

			if !skipCheck {
				ver, err := testConnection(flagURL)
				if err != nil {
					return fmt.Errorf("connection failed: %w", err)
				}
				fmt.Printf("Connected to %s (v%s)\n", flagURL, ver)
			}

			cfgPath, err := writeConfig(profile, flagURL, flagToken)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Printf("Config saved to %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to write and activate")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Do not contact the server before saving")
	return cmd
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if h.Version == "" {
		return "unknown", nil
	}
	return h.Version, nil
}

// writeConfig merges the profile into the existing config file, if any, and
// makes it the active one.
func writeConfig(profile, url, token string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	var cfg configFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return "", fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]configProfile{}
	}
	cfg.Profiles[profile] = configProfile{URL: url, Token: token}
	cfg.ActiveProfile = profile

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}
	return cfgPath, nil
}
