package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/audit"
	"github.com/escrowdesk/escrowdesk/internal/view"
)

var disputesCmd = &cobra.Command{
	Use:   "disputes",
	Short: "List disputes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		disputes, err := client.ListDisputes(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(disputes))
		for _, d := range disputes {
			reference, product := "N/A", "N/A"
			if d.Transaction != nil {
				reference = d.Transaction.Reference
				product = d.Transaction.PaymentName
			}
			rows = append(rows, []string{
				d.ID,
				reference,
				product,
				d.Reason,
				view.StatusBadge(d.Status),
				fmt.Sprint(len(d.Evidence)),
				view.FormatTime(d.CreatedAt, displayLoc),
			})
		}

		view.Table(os.Stdout, []string{"ID", "REFERENCE", "PRODUCT", "REASON", "STATUS", "EVIDENCE", "OPENED"}, rows)
		return nil
	},
}

var disputesResolveCmd = &cobra.Command{
	Use:   "resolve <dispute-id> <buyer|seller>",
	Short: "Resolve a dispute in favor of one party",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disputeID, favor := args[0], args[1]
		if favor != "buyer" && favor != "seller" {
			return fmt.Errorf("resolution must be buyer or seller, got %q", favor)
		}
		resolution := "Resolved in favor of " + favor

		if err := client.UpdateDisputeStatus(cmd.Context(), disputeID, "Resolved", resolution); err != nil {
			return err
		}

		if rec, recErr := openAudit(); recErr == nil {
			recordAudit(cmd.Context(), rec, audit.ActionDisputeResolved, disputeID, resolution)
			rec.Close()
		}

		fmt.Printf("Dispute %s resolved in favor of the %s\n", disputeID, favor)
		return nil
	},
}

func init() {
	disputesCmd.AddCommand(disputesResolveCmd)
}
