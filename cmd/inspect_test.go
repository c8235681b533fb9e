package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/chat-harvest/testutil"
)

func TestInspectCommand_Text(t *testing.T) {
	path := writeHarvest(t, "sqlite")

	out, err := execute(t, "", "inspect", path)
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}

	for _, want := range []string{
		"Database: " + path,
		"Agent: agent-s (3 chat(s): 2 ok, 1 failed)",
		"Found 2 table(s)",
		"Table: chats",
		"Rows: 3",
		"position: INTEGER [PRIMARY KEY]",
		"Table: harvest",
		"agent_id: TEXT NOT NULL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "inspect", "--format", "json", writeHarvest(t, "sqlite"))
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}

	var info inspection
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if info.AgentID != "agent-s" || info.Summary == nil || info.Summary.TotalChats != 3 {
		t.Errorf("unexpected inspection: %+v", info)
	}
	if len(info.Tables) != 2 {
		t.Errorf("got %d tables, want 2", len(info.Tables))
	}
}

func TestInspectCommand_Fixture(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "fixture.db")
	testutil.CreateHarvestDBFixture(t, path)

	out, err := execute(t, "", "inspect", path)
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	if !strings.Contains(out, "fixture-agent") {
		t.Errorf("output missing fixture agent:\n%s", out)
	}
}

func TestInspectCommand_Errors(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no path", args: []string{"inspect"}},
		{name: "missing database", args: []string{"inspect", filepath.Join(dir, "missing.db")}},
		{name: "bad format", args: []string{"inspect", "--format", "xml", writeHarvest(t, "sqlite")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Error("inspect should fail")
			}
		})
	}
}
