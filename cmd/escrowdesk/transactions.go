package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/api"
	"github.com/escrowdesk/escrowdesk/internal/view"
)

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List escrow transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		transactions, err := client.ListTransactions(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(transactions))
		for _, tx := range transactions {
			buyer, seller := transactionParties(tx)
			rows = append(rows, []string{
				tx.Reference,
				tx.PaymentName,
				view.FormatNaira(tx.PaymentAmount),
				buyer,
				seller,
				view.StatusBadge(tx.Status),
				view.FormatTime(tx.CreatedAt, displayLoc),
			})
		}

		view.Table(os.Stdout, []string{"REFERENCE", "PRODUCT", "AMOUNT", "BUYER", "SELLER", "STATUS", "CREATED"}, rows)
		return nil
	},
}

// transactionParties resolves buyer and seller names. The creator fills
// the side named by selectedUserType; participants fill the rest.
func transactionParties(tx api.Transaction) (buyer, seller string) {
	if tx.Creator != nil {
		switch tx.SelectedUserType {
		case "buyer":
			buyer = tx.Creator.FullName()
		case "seller":
			seller = tx.Creator.FullName()
		}
	}
	for _, p := range tx.Participants {
		if p.User == nil {
			continue
		}
		switch p.Role {
		case "buyer":
			if buyer == "" {
				buyer = p.User.FullName()
			}
		case "seller":
			if seller == "" {
				seller = p.User.FullName()
			}
		}
	}
	if buyer == "" {
		buyer = "N/A"
	}
	if seller == "" {
		seller = "N/A"
	}
	return buyer, seller
}
