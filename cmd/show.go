package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/chat-harvest/internal"
	"github.com/iksnae/chat-harvest/internal/export"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	showRaw    bool
	showChatID string
	showFailed bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Render an exported harvest",
	Long: `Load a harvest exported as json, yaml or sqlite and render it as Markdown.

On a terminal the Markdown is styled; use --raw to print it as is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := export.ReadFile(args[0])
		if err != nil {
			return err
		}

		if showChatID != "" || showFailed {
			result = filterChats(result, showChatID, showFailed)
			if len(result.Chats) == 0 {
				return fmt.Errorf("no matching chat in %s", args[0])
			}
		}

		var md bytes.Buffer
		if err := (&export.MarkdownExporter{}).Export(result, &md); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showRaw || !internal.IsTerminal(out) {
			_, err := out.Write(md.Bytes())
			return err
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(terminalWidth()),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		rendered, err := renderer.Render(md.String())
		if err != nil {
			internal.LogWarn("Markdown rendering failed, printing raw: %v", err)
			rendered = md.String()
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	},
}

// filterChats keeps the chat with the given id, or only failed chats, or
// both
func filterChats(result *internal.HarvestResult, id string, failedOnly bool) *internal.HarvestResult {
	filtered := &internal.HarvestResult{
		AgentID:   result.AgentID,
		Timestamp: result.Timestamp,
		Chats:     make([]internal.ChatResult, 0),
	}
	for _, chat := range result.Chats {
		if id != "" && chat.ID.String() != id {
			continue
		}
		if failedOnly && !chat.Failed() {
			continue
		}
		filtered.Chats = append(filtered.Chats, chat)
	}
	return filtered
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w - 4
	}
	return 80
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print plain Markdown without styling")
	showCmd.Flags().StringVar(&showChatID, "chat", "", "Only show the chat with this ID")
	showCmd.Flags().BoolVar(&showFailed, "failed", false, "Only show chats that could not be fetched")
}
