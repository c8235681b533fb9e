package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/chat-harvest/internal/export"
	"github.com/iksnae/chat-harvest/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportedFiles returns the documents a harvest wrote to dir
func exportedFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "conversations_*"))
	require.NoError(t, err)
	return matches
}

func TestHarvestCommand_WritesDocument(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddChats(testutil.FakeChat{ID: "c1", Name: "Welcome", CreationTime: "2024-01-01T10:00:00", Messages: `[{"role":"user","content":"hi"}]`})
	dir := testutil.CreateTempDir(t)

	_, err := execute(t, "secret\n",
		"harvest", "--api-url", api.URL(), "--agent-id", "42", "--username", "alice", "--out", dir)
	require.NoError(t, err)

	files := exportedFiles(t, dir)
	require.Len(t, files, 1)
	name := filepath.Base(files[0])
	assert.True(t, strings.HasPrefix(name, "conversations_42_"), name)
	assert.True(t, strings.HasSuffix(name, ".json"), name)
	assert.Equal(t, 1, strings.Count(name, "."), "timestamp part must not contain dots: %s", name)
	assert.NotContains(t, name, ":")

	result, err := export.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "42", result.AgentID)
	require.Len(t, result.Chats, 1)
	assert.Equal(t, "Welcome", result.Chats[0].Name)
	assert.JSONEq(t, `[{"role":"user","content":"hi"}]`, string(result.Chats[0].Messages))

	auth := api.Requests()[0]
	assert.Equal(t, "/auth/token", auth.Path)
	assert.Equal(t, "alice", auth.Form.Get("username"))
	assert.Equal(t, "secret", auth.Form.Get("password"))
}

func TestHarvestCommand_PromptsForUsername(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	dir := testutil.CreateTempDir(t)

	_, err := execute(t, "carol\npw\n",
		"harvest", "--api-url", api.URL(), "--agent-id", "7", "--out", dir)
	require.NoError(t, err)

	assert.Equal(t, "carol", api.Requests()[0].Form.Get("username"))
	assert.Equal(t, "pw", api.Requests()[0].Form.Get("password"))
	assert.Len(t, exportedFiles(t, dir), 1)
}

func TestHarvestCommand_Formats(t *testing.T) {
	for _, tt := range []struct {
		format string
		ext    string
	}{
		{"json", ".json"},
		{"jsonl", ".jsonl"},
		{"yaml", ".yaml"},
		{"md", ".md"},
		{"sqlite", ".db"},
	} {
		t.Run(tt.format, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.AddChats(testutil.FakeChat{ID: "only", Name: "Only"})
			dir := testutil.CreateTempDir(t)

			_, err := execute(t, "pw\n",
				"harvest", "--api-url", api.URL(), "-a", "1", "-u", "u", "-f", tt.format, "-o", dir)
			require.NoError(t, err)

			files := exportedFiles(t, dir)
			require.Len(t, files, 1)
			assert.Equal(t, tt.ext, filepath.Ext(files[0]))
		})
	}
}

func TestHarvestCommand_Stdout(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddChats(testutil.FakeChat{ID: "c1", Name: "One"})
	dir := testutil.CreateTempDir(t)

	out, err := execute(t, "pw\n",
		"harvest", "--api-url", api.URL(), "-a", "9", "-u", "u", "--stdout", "-o", dir)
	require.NoError(t, err)

	result, err := export.Decode([]byte(out), "json")
	require.NoError(t, err)
	assert.Equal(t, "9", result.AgentID)
	assert.Len(t, result.Chats, 1)
	assert.Empty(t, exportedFiles(t, dir), "stdout mode must not write a file")
}

func TestHarvestCommand_TokenField(t *testing.T) {
	body := `{"token_type":"bearer","access_token":"real-token"}`

	t.Run("first property is not the token", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.SetToken("real-token", body)

		_, err := execute(t, "pw\n",
			"harvest", "--api-url", api.URL(), "-a", "1", "-u", "u", "-o", testutil.CreateTempDir(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list error")
	})

	t.Run("explicit field", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.SetToken("real-token", body)

		_, err := execute(t, "pw\n",
			"harvest", "--api-url", api.URL(), "-a", "1", "-u", "u", "--token-field", "access_token", "-o", testutil.CreateTempDir(t))
		require.NoError(t, err)
		assert.Equal(t, "Bearer real-token", api.Requests()[1].Authorization)
	})
}

func TestHarvestCommand_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(api *testutil.FakeAPI)
		args      []string
		stdin     string
		wantMsg   string
		wantCalls int
	}{
		{
			name:      "invalid format",
			args:      []string{"-a", "1", "-u", "u", "--format", "xml"},
			stdin:     "pw\n",
			wantMsg:   "unsupported format",
			wantCalls: 0,
		},
		{
			name:      "missing agent id",
			args:      []string{"-u", "u"},
			stdin:     "pw\n",
			wantMsg:   "--agent-id is required",
			wantCalls: 0,
		},
		{
			name:      "missing password",
			args:      []string{"-a", "1", "-u", "u"},
			wantMsg:   "password",
			wantCalls: 0,
		},
		{
			name:      "authentication rejected",
			setup:     func(api *testutil.FakeAPI) { api.FailAuth(http.StatusUnauthorized) },
			args:      []string{"-a", "1", "-u", "u"},
			stdin:     "pw\n",
			wantMsg:   "authentication error",
			wantCalls: 1,
		},
		{
			name:      "listing fails",
			setup:     func(api *testutil.FakeAPI) { api.FailList(http.StatusInternalServerError) },
			args:      []string{"-a", "1", "-u", "u"},
			stdin:     "pw\n",
			wantMsg:   "list error",
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			if tt.setup != nil {
				tt.setup(api)
			}
			dir := testutil.CreateTempDir(t)

			args := append([]string{"harvest", "--api-url", api.URL(), "--out", dir}, tt.args...)
			_, err := execute(t, tt.stdin, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Len(t, api.Requests(), tt.wantCalls)
			assert.Empty(t, exportedFiles(t, dir), "no document on failure")
		})
	}
}

func TestHarvestCommand_FailedChatRecorded(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the pause between chats")
	}

	api := testutil.NewFakeAPI(t)
	api.AddChats(
		testutil.FakeChat{ID: "ok", Name: "Fine", Messages: `[]`},
		testutil.FakeChat{ID: "ko", Name: "Broken", Status: http.StatusInternalServerError},
	)
	dir := testutil.CreateTempDir(t)

	_, err := execute(t, "pw\n", "harvest", "--api-url", api.URL(), "-a", "1", "-u", "u", "-o", dir)
	require.NoError(t, err)

	files := exportedFiles(t, dir)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	result, err := export.Decode(data, "json")
	require.NoError(t, err)
	require.Len(t, result.Chats, 2)
	assert.False(t, result.Chats[0].Failed())
	assert.True(t, result.Chats[1].Failed())
	assert.Contains(t, result.Chats[1].Error, "500")
}
