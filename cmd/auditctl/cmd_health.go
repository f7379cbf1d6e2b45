package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			h, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"STATUS", "VERSION", "DATABASE", "AUDIT_MODE", "UPTIME"},
					[][]string{{h.Status, h.Version, h.Database, h.AuditMode, fmt.Sprintf("%.0fs", h.UptimeSeconds)}},
				)
				return
			}
			output(h, h.Status)
		},
	}
}
