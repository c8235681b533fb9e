package cmd

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "nonexistent command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"harvest", "--no-such-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != rootCmd.Version+"\n" {
		t.Errorf("version output = %q, want %q", out, rootCmd.Version+"\n")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	api := flags.Lookup("api-url")
	if api == nil {
		t.Fatal("api-url flag missing")
	}
	if !api.Hidden {
		t.Error("api-url should be hidden")
	}
	if api.DefValue != "https://api.argo.hestia.ai" {
		t.Errorf("api-url default = %s", api.DefValue)
	}

	if flags.ShorthandLookup("v") == nil {
		t.Error("verbose should have the -v shorthand")
	}
	if flags.Lookup("timeout") == nil {
		t.Error("timeout flag missing")
	}
}

func TestNewAPIClient_UsesFlags(t *testing.T) {
	resetFlags()
	apiURL = "http://example.test/"

	client := newAPIClient()
	if client.BaseURL() != "http://example.test" {
		t.Errorf("BaseURL() = %s", client.BaseURL())
	}
}
