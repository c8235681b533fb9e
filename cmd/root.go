package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	apiURL      string
	httpTimeout time.Duration
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-harvest",
	Short: "Download every conversation of an Argo agent",
	Long: `A CLI tool to harvest the chat history of an Argo conversational agent.

It signs in with your Argo credentials, lists the chats of one agent,
fetches the messages of each chat one at a time and saves everything as a
single document.

Features:
  • Harvest all chats of an agent into one file
  • Export in multiple formats (JSON, JSONL, YAML, Markdown, SQLite)
  • Read back and render exported documents
  • Failed chats are recorded without stopping the harvest

Quick Start:
  chat-harvest harvest --agent-id 42 --username me   # Harvest to JSON
  chat-harvest harvest --agent-id 42 --format md     # Harvest as Markdown
  chat-harvest show conversations_42_*.json          # Read an export`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAPIClient builds a client from the persistent flags
func newAPIClient(opts ...internal.ClientOption) *internal.APIClient {
	base := []internal.ClientOption{internal.WithBaseURL(apiURL)}
	if httpTimeout > 0 {
		base = append(base, internal.WithTimeout(httpTimeout))
	}
	return internal.NewAPIClient(append(base, opts...)...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", internal.DefaultAPIURL, "Base URL of the Argo API")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", 0, "HTTP request timeout (0 for none)")
	_ = rootCmd.PersistentFlags().MarkHidden("api-url")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
