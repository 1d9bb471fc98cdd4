// Package view renders API data as console tables and chat transcripts.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/escrowdesk/escrowdesk/internal/chat"
)

var (
	styleGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleBad     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeading = lipgloss.NewStyle().Bold(true)

	roleStyles = map[chat.Role]lipgloss.Style{
		chat.RoleAdmin:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		chat.RoleBuyer:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		chat.RoleSeller: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
)

// StatusBadge colors a status string the way the platform's palette does:
// open/pending amber, resolved/completed green, cancelled/failed red.
func StatusBadge(status string) string {
	if status == "" {
		return styleMuted.Render("N/A")
	}
	switch strings.ToLower(status) {
	case "open", "pending", "processing", "disputed":
		return styleWarn.Render(status)
	case "resolved", "completed", "paid", "verified":
		return styleGood.Render(status)
	case "cancelled", "canceled", "failed", "rejected":
		return styleBad.Render(status)
	default:
		return status
	}
}

// Heading renders a bold section title.
func Heading(text string) string {
	return styleHeading.Render(text)
}

// Muted renders secondary text.
func Muted(text string) string {
	return styleMuted.Render(text)
}

// Table writes an aligned table with a header row.
func Table(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// FormatTime renders a timestamp in the configured display timezone.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Jan 2, 2006 15:04")
}

// FormatNaira renders an amount with the platform's currency symbol and
// thousands separators.
func FormatNaira(amount float64) string {
	whole := int64(amount)
	frac := amount - float64(whole)

	s := strconv.FormatInt(whole, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "₦" + b.String()
	if frac > 0.004 {
		out += fmt.Sprintf(".%02d", int(frac*100+0.5))
	}
	if negative {
		out = "-" + out
	}
	return out
}

// ChatLine renders one chat message for the transcript.
func ChatLine(m chat.Message, loc *time.Location) string {
	role := string(m.AuthorRole)
	if role == "" {
		role = "System"
	}
	label := role
	if style, ok := roleStyles[m.AuthorRole]; ok {
		label = style.Render(role)
	}
	return fmt.Sprintf("%s [%s] %s", Muted(FormatTime(m.SentAt, loc)), label, m.Body)
}
