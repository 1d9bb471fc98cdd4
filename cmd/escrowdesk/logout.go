package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/audit"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored credential",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := sess.Clear(); err != nil {
			return err
		}

		if rec, err := openAudit(); err == nil {
			recordAudit(cmd.Context(), rec, audit.ActionLogout, "", "")
			rec.Close()
		}

		fmt.Println("Logged out.")
		return nil
	},
}
