package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/spf13/cobra"
)

var inspectFormat string

// inspection is the json form of the inspect output
type inspection struct {
	Path    string                   `json:"path"`
	AgentID string                   `json:"agentId,omitempty"`
	Summary *internal.HarvestSummary `json:"summary,omitempty"`
	Tables  []internal.TableInfo     `json:"tables"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <database-path>",
	Short: "Inspect a harvest exported as SQLite",
	Long: `Show the schema and row counts of a harvest saved with --format sqlite.

Examples:
  chat-harvest inspect conversations_42_2024-06-01T12-30-00-250Z.db
  chat-harvest inspect --format json harvest.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectFormat != "text" && inspectFormat != "json" {
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}

		info, err := inspectDatabase(args[0])
		if err != nil {
			return err
		}

		if inspectFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		printInspection(cmd.OutOrStdout(), info)
		return nil
	},
}

func inspectDatabase(dbPath string) (*inspection, error) {
	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tables, err := internal.DescribeTables(db)
	if err != nil {
		return nil, fmt.Errorf("failed to describe tables: %w", err)
	}

	info := &inspection{Path: dbPath, Tables: tables}

	// a database written by another tool has no harvest to summarize
	if result, err := internal.NewStorage(db).LoadHarvest(); err == nil {
		summary := result.Summary()
		info.AgentID = result.AgentID
		info.Summary = &summary
	} else {
		internal.LogDebug("No harvest in %s: %v", dbPath, err)
	}

	return info, nil
}

func printInspection(w io.Writer, info *inspection) {
	_, _ = fmt.Fprintf(w, "📋 Database: %s\n", info.Path)
	if info.Summary != nil {
		_, _ = fmt.Fprintf(w, "🤖 Agent: %s (%d chat(s): %d ok, %d failed)\n",
			info.AgentID, info.Summary.TotalChats, info.Summary.SuccessCount, info.Summary.ErrorCount)
	}

	if len(info.Tables) == 0 {
		_, _ = fmt.Fprintln(w, "⚠️  No tables found in database")
		return
	}
	_, _ = fmt.Fprintf(w, "📊 Found %d table(s)\n\n", len(info.Tables))

	for _, table := range info.Tables {
		_, _ = fmt.Fprintln(w, strings.Repeat("━", 40))
		_, _ = fmt.Fprintf(w, "📦 Table: %s\n", table.Name)
		_, _ = fmt.Fprintln(w, strings.Repeat("━", 40))
		_, _ = fmt.Fprintf(w, "📊 Rows: %d\n\n", table.RowCount)

		_, _ = fmt.Fprintln(w, "📐 Schema:")
		for _, col := range table.Columns {
			notNull := ""
			if col.NotNull {
				notNull = " NOT NULL"
			}
			pk := ""
			if col.PrimaryKey {
				pk = " [PRIMARY KEY]"
			}
			_, _ = fmt.Fprintf(w, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
}
