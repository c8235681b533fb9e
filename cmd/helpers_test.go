package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/spf13/cobra"
)

// execute runs the root command with args, feeding stdin to prompts, and
// returns what the command wrote to its output
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// resetFlags restores flag defaults, since cobra keeps values between
// executions of the same command tree
func resetFlags() {
	verbose, apiURL, httpTimeout = false, internal.DefaultAPIURL, 0
	agentID, username, format, outputDir, tokenField, toStdout = "", "", "json", ".", "", false
	listAgentID, listUsername = "", ""
	showRaw, showChatID, showFailed = false, "", false
	inspectFormat = "text"
	healthUsername, healthAgentID = "", ""

	resetBoolFlags(rootCmd)
}

func resetBoolFlags(c *cobra.Command) {
	for _, name := range []string{"help", "version"} {
		if f := c.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}
	for _, sub := range c.Commands() {
		resetBoolFlags(sub)
	}
}
