package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/iksnae/chat-harvest/internal/export"
	"github.com/spf13/cobra"
)

var (
	agentID    string
	username   string
	format     string
	outputDir  string
	tokenField string
	toStdout   bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Download all chats of an agent into one document",
	Long: `Sign in, list the chats of an agent and fetch the messages of each chat.

Chats are fetched one at a time with a one second pause between them. A
chat that cannot be fetched is recorded with its error and the harvest
goes on. The result is written to conversations_{agent}_{timestamp}.{ext}
in the output directory.

The password is always prompted for and never echoed.`,
	Example: `  chat-harvest harvest --agent-id 42 --username alice
  chat-harvest harvest --agent-id 42 --format yaml --out ./exports
  chat-harvest harvest --agent-id 42 --stdout > harvest.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Fail on a bad format before asking for a password
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		creds, err := readCredentials(cmd, username, agentID)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client := newAPIClient(internal.WithTokenField(tokenField))
		internal.LogDebug("Harvesting agent %s from %s", creds.AgentID, client.BaseURL())

		harvester := internal.NewHarvester(client,
			internal.WithProgress(internal.NewProgressPrinter(cmd.ErrOrStderr())))
		result, err := harvester.Run(ctx, creds)
		if err != nil {
			return fmt.Errorf("harvest failed: %w", err)
		}

		summary := result.Summary()
		if toStdout {
			if err := export.WriteTo(result, exporter, cmd.OutOrStdout()); err != nil {
				return err
			}
			internal.LogInfo("Wrote %d chat(s) to stdout", summary.TotalChats)
			return nil
		}

		var path string
		err = internal.ShowProgress(ctx, fmt.Sprintf("Writing %d chat(s) to %s", summary.TotalChats, outputDir), func() error {
			var writeErr error
			path, writeErr = export.WriteDocument(result, exporter, outputDir, time.Now())
			return writeErr
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Harvest complete: %d chat(s) saved to %s", summary.TotalChats, path))
		if summary.ErrorCount > 0 {
			internal.PrintWarning(fmt.Sprintf("%d of %d chat(s) could not be fetched", summary.ErrorCount, summary.TotalChats))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	harvestCmd.Flags().StringVarP(&agentID, "agent-id", "a", "", "Agent whose chats are harvested (required)")
	harvestCmd.Flags().StringVarP(&username, "username", "u", "", "Argo username (prompted when empty)")
	harvestCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, md, yaml, sqlite)")
	harvestCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	harvestCmd.Flags().StringVar(&tokenField, "token-field", "", "Read the token from this field of the sign-in response instead of the first one")
	harvestCmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the document to stdout instead of a file")
}
