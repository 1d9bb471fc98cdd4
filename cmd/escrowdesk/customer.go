package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/view"
)

var customerCmd = &cobra.Command{
	Use:   "customer <email>",
	Short: "Look up a customer and their reconciled financials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		customer, err := client.CustomerByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		u := customer.User
		fmt.Println(view.Heading(u.FullName()))
		view.Table(os.Stdout, []string{"FIELD", "VALUE"}, [][]string{
			{"Email", u.Email},
			{"Phone", u.PhoneNumber},
			{"Bank", u.Bank},
			{"Account", u.AccountNumber},
			{"Joined", view.FormatTime(u.CreatedAt, displayLoc)},
		})

		f := customer.Financials
		balance := view.FormatNaira(f.CurrentBalance)
		if f.BalanceMismatch {
			balance += " " + view.StatusBadge("failed")
			balance += view.Muted(fmt.Sprintf(" (expected %s)", view.FormatNaira(f.TheoreticalBalance)))
		}

		fmt.Println()
		fmt.Println(view.Heading("Financials"))
		view.Table(os.Stdout, []string{"FIELD", "VALUE"}, [][]string{
			{"Current balance", balance},
			{"Available balance", view.FormatNaira(f.AvailableBalance)},
			{"Locked funds", view.FormatNaira(f.LockedFunds)},
			{"Total deposited", view.FormatNaira(f.TotalDeposited)},
			{"Total withdrawn", view.FormatNaira(f.TotalWithdrawn)},
			{"Pending withdrawals", view.FormatNaira(f.TotalPendingWithdrawals)},
			{"Earned as seller", view.FormatNaira(f.TotalEarnedAsSeller)},
			{"Spent as buyer", view.FormatNaira(f.TotalSpentAsBuyer)},
			{"Buyer transactions", fmt.Sprintf("%d (%d completed)", f.TotalBuyerTransactions, f.CompletedBuyerTransactions)},
			{"Seller transactions", fmt.Sprintf("%d (%d completed)", f.TotalSellerTransactions, f.CompletedSellerTransactions)},
		})

		if f.WithdrawalsValidation != "" {
			fmt.Println(view.Muted("Withdrawals validation: " + f.WithdrawalsValidation))
		}
		if !customer.StatsUpdatedAt.IsZero() {
			fmt.Println(view.Muted("Stats as of " + view.FormatTime(customer.StatsUpdatedAt, displayLoc)))
		}
		return nil
	},
}
