package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/audit"
	"github.com/escrowdesk/escrowdesk/internal/view"
)

var withdrawalsCmd = &cobra.Command{
	Use:   "withdrawals",
	Short: "List payout requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		withdrawals, err := client.ListWithdrawals(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(withdrawals))
		for _, w := range withdrawals {
			paid := view.FormatTime(w.Metadata.PaidDate, displayLoc)
			rows = append(rows, []string{
				w.Reference,
				view.FormatNaira(w.Amount),
				w.Bank,
				w.AccountNumber,
				view.StatusBadge(w.Status),
				paid,
				view.FormatTime(w.CreatedAt, displayLoc),
			})
		}

		view.Table(os.Stdout, []string{"REFERENCE", "AMOUNT", "BANK", "ACCOUNT", "STATUS", "PAID", "REQUESTED"}, rows)
		return nil
	},
}

var withdrawalsPaidCmd = &cobra.Command{
	Use:   "paid <reference>",
	Short: "Mark a withdrawal as settled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference := args[0]

		paidDate, err := client.MarkWithdrawalPaid(cmd.Context(), reference)
		if err != nil {
			return err
		}

		if rec, recErr := openAudit(); recErr == nil {
			recordAudit(cmd.Context(), rec, audit.ActionWithdrawalPaid, reference, "")
			rec.Close()
		}

		fmt.Printf("Withdrawal %s marked paid on %s\n", reference, view.FormatTime(paidDate, displayLoc))
		return nil
	},
}

func init() {
	withdrawalsCmd.AddCommand(withdrawalsPaidCmd)
}
