package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	healthUsername string
	healthAgentID  string
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the Argo API can be reached",
	Long: `Check the health of chat-harvest by verifying:
  • The API host answers
  • Sign-in succeeds (when --username is given)
  • The chat listing of an agent is readable (when --agent-id is also given)

This command is useful for debugging network or credential problems before a harvest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		client := newAPIClient()

		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 chat-harvest Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: reach the host
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Contacting "+client.BaseURL()+"..."))
		status, err := client.Ping(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ API host unreachable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ API host answered (status %d)", status)))
		_, _ = fmt.Fprintln(out)

		if healthUsername == "" {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Sign-in not checked (no --username)"))
			printHealthSummary(out, "reachable")
			return nil
		}

		// Step 2: sign in
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Signing in as "+healthUsername+"..."))
		password, err := newPrompter(cmd).secret("Password: ")
		if err != nil {
			return err
		}
		token, err := client.Authenticate(ctx, healthUsername, password)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Sign-in failed:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Signed in"))
		_, _ = fmt.Fprintln(out)

		if healthAgentID == "" {
			printHealthSummary(out, "signed in")
			return nil
		}

		// Step 3: list chats
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Listing chats of agent "+healthAgentID+"..."))
		chats, err := client.ListChats(ctx, healthAgentID, token)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Listing failed:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d chat(s)", len(chats))))
		_, _ = fmt.Fprintln(out)

		printHealthSummary(out, fmt.Sprintf("%d chat(s) ready to harvest", len(chats)))
		return nil
	},
}

func printHealthSummary(out io.Writer, state string) {
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed: "+state))
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().StringVarP(&healthUsername, "username", "u", "", "Also check sign-in for this user")
	healthcheckCmd.Flags().StringVarP(&healthAgentID, "agent-id", "a", "", "Also check the chat listing of this agent")
}
