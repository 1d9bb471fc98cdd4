package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/view"
)

var usersSearch string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List platform accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		users, err := client.ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		needle := strings.ToLower(strings.TrimSpace(usersSearch))
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			if needle != "" &&
				!strings.Contains(strings.ToLower(u.FullName()), needle) &&
				!strings.Contains(strings.ToLower(u.Email), needle) {
				continue
			}
			admin := ""
			if u.IsAdmin {
				admin = "admin"
			}
			rows = append(rows, []string{
				u.FullName(),
				u.Email,
				u.PhoneNumber,
				admin,
				view.FormatTime(u.CreatedAt, displayLoc),
			})
		}

		view.Table(os.Stdout, []string{"NAME", "EMAIL", "PHONE", "ROLE", "JOINED"}, rows)
		fmt.Println(view.Muted(fmt.Sprintf("%d of %d users", len(rows), len(users))))
		return nil
	},
}

func init() {
	usersCmd.Flags().StringVar(&usersSearch, "search", "", "filter by name or email")
}
