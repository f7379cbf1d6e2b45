package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ginternational/backoffice/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit trail",
	}
	cmd.AddCommand(auditSearchCmd())
	cmd.AddCommand(auditGetCmd())
	return cmd
}

func auditSearchCmd() *cobra.Command {
	opts := &client.AuditSearchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search audit records",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			page, err := apiClient.Audit.Search(context.Background(), opts)
			if err != nil {
				fatal("audit search", err)
			}
			switch flagFmt {
			case "table":
				printAuditTable(page.Data)
				fmt.Printf("\npage %d, %d of %d records\n", page.CurrentPage, len(page.Data), page.TotalItems)
			case "quiet":
				for _, r := range page.Data {
					formatQuiet(r.ID)
				}
			default:
				formatJSON(page)
			}
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.StartDate, "start", "", "Earliest createdAt (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&opts.EndDate, "end", "", "Latest createdAt (RFC3339 or YYYY-MM-DD, inclusive day)")
	f.StringVar(&opts.Action, "action", "", "CREATE, UPDATE or DELETE")
	f.StringVar(&opts.TargetModel, "model", "", "Target model, e.g. User or Form")
	f.StringVar(&opts.Target, "target", "", "Target id, name, form number or identifier (requires --model)")
	f.StringVar(&opts.OperatorID, "operator", "", "Operator account id")
	f.StringVarP(&opts.QuickSearch, "query", "q", "", "Free-text search over operator and target info")
	f.StringVar(&opts.SortBy, "sort-by", "", "Sort field: createdAt, action, targetModel or operatorInfo.name")
	f.StringVar(&opts.SortOrder, "order", "", "asc or desc")
	f.IntVar(&opts.Page, "page", 0, "Page number (1-based)")
	f.IntVar(&opts.ItemsPerPage, "per-page", 0, "Items per page")
	return cmd
}

func auditGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one audit record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rec, err := apiClient.Audit.Get(context.Background(), args[0])
			if err != nil {
				fatal("audit get", err)
			}
			if flagFmt == "table" {
				printAuditTable([]client.AuditRecord{*rec})
				return
			}
			output(rec, rec.ID)
		},
	}
}

func printAuditTable(records []client.AuditRecord) {
	headers := []string{"ID", "CREATED_AT", "ACTION", "MODEL", "TARGET", "OPERATOR", "CHANGED"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		changed := ""
		if len(r.Changes.ChangedFields) > 0 {
			changed = strconv.Itoa(len(r.Changes.ChangedFields))
		}
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Action,
			r.TargetModel,
			infoString(r.TargetInfo),
			operatorLabel(r.OperatorInfo),
			changed,
		})
	}
	formatTable(headers, rows)
}

func operatorLabel(info client.OperatorInfo) string {
	if info.Identifier == "" {
		return info.Name
	}
	return fmt.Sprintf("%s (%s)", info.Name, info.Identifier)
}
