package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginternational/backoffice/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for an existing account",
		Long: "Signs a token with JWT_SECRET for the given user id. The account is\n" +
			"checked on every request, so disabled or deleted users are still rejected.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user must be a user id: %w", err)
			}

			tok, err := middleware.IssueToken([]byte(cfg.JWTSecret.Value()), id, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)

			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (_id) the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
