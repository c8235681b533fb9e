package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-harvest/internal"
	"github.com/spf13/cobra"
)

var (
	listAgentID  string
	listUsername string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// layouts seen in creation_time values
var creationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the chats of an agent",
	Long: `Sign in and show the chats a harvest of this agent would fetch.

Only the first page of the listing (10 chats) is shown, which is exactly
what harvest downloads.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := readCredentials(cmd, listUsername, listAgentID)
		if err != nil {
			return err
		}

		client := newAPIClient()
		ctx := cmd.Context()

		var chats []internal.ChatSummary
		err = internal.ShowProgress(ctx, "Loading chats", func() error {
			token, err := client.Authenticate(ctx, creds.Username, creds.Password)
			if err != nil {
				return err
			}
			chats, err = client.ListChats(ctx, creds.AgentID, token)
			return err
		})
		if err != nil {
			return err
		}

		displayChats(cmd.OutOrStdout(), creds.AgentID, chats, time.Now())
		return nil
	},
}

func displayChats(out io.Writer, agent string, chats []internal.ChatSummary, now time.Time) {
	if len(chats) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 No chats found for agent %s", agent)))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d chat(s) for agent %s", len(chats), agent)))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, chat := range chats {
		name := chat.ChatName
		if name == "" {
			name = "Untitled"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
			idStyle.Render(chat.ID.String()),
			nameStyle.Render(name),
			dateStyle.Render(formatCreated(chat.CreationTime, now)))
	}

	_ = w.Flush()
}

// formatCreated shortens a creation time relative to now. Values that do
// not parse are shown as sent.
func formatCreated(value string, now time.Time) string {
	if value == "" {
		return "—"
	}

	for _, layout := range creationLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		diff := now.Sub(t)
		switch {
		case diff >= 0 && diff < 24*time.Hour:
			return t.Format("Today 15:04")
		case diff >= 0 && diff < 7*24*time.Hour:
			return t.Format("Mon 15:04")
		case diff >= 0 && diff < 365*24*time.Hour:
			return t.Format("Jan 02 15:04")
		default:
			return t.Format("2006-01-02")
		}
	}
	return value
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listAgentID, "agent-id", "a", "", "Agent whose chats are listed (required)")
	listCmd.Flags().StringVarP(&listUsername, "username", "u", "", "Argo username (prompted when empty)")
}
