package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/escrowdesk/escrowdesk/internal/audit"
	"github.com/escrowdesk/escrowdesk/internal/view"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the platform admin API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		reader := bufio.NewReader(os.Stdin)

		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		password, err := readPassword(reader)
		if err != nil {
			return err
		}

		if err := client.Login(ctx, email, password); err != nil {
			return err
		}

		if rec, recErr := openAudit(); recErr == nil {
			recordAudit(ctx, rec, audit.ActionLogin, email, "")
			rec.Close()
		}

		fmt.Println("Logged in as", email)
		if exp, expErr := sess.ExpiresAt(); expErr == nil && !exp.IsZero() {
			fmt.Println(view.Muted("Session expires " + view.FormatTime(exp, displayLoc)))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "admin email (prompted if omitted)")
}

func readPassword(reader *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	fd := int(os.Stdin.Fd())
	if terminal.IsTerminal(fd) {
		raw, err := terminal.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	// Piped stdin (scripts, tests): read a plain line.
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
