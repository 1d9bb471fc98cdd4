package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/view"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show platform-wide aggregates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := client.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(view.Heading("Platform overview"))
		view.Table(os.Stdout, []string{"METRIC", "VALUE", "LAST MONTH"}, [][]string{
			{"Users", fmt.Sprint(stats.UserCount), fmt.Sprint(stats.UserCountLastMonth)},
			{"Transactions", fmt.Sprint(stats.TransactionCount), ""},
			{"Pending KYC", fmt.Sprint(stats.PendingKYC), fmt.Sprint(stats.PendingKYCLastMonth)},
			{"Pending withdrawals", view.FormatNaira(stats.PendingWithdrawals), ""},
		})
		return nil
	},
}
