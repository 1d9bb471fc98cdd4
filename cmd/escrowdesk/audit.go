package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/view"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the local trail of operator actions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec, err := openAudit()
		if err != nil {
			return err
		}
		defer rec.Close()

		entries, err := rec.Recent(cmd.Context(), auditLimit)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				view.FormatTime(e.CreatedAt, displayLoc),
				string(e.Action),
				e.Subject,
				e.Detail,
			})
		}

		view.Table(os.Stdout, []string{"WHEN", "ACTION", "SUBJECT", "DETAIL"}, rows)
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum entries to show")
}
