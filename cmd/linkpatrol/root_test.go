package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "linkpatrol" {
		t.Errorf("expected Use to be linkpatrol, got %s", cmd.Use)
	}

	wantSubcommands := []string{"crawl", "report", "export", "version"}
	for _, want := range wantSubcommands {
		found := false
		for _, sub := range cmd.Commands() {
			if strings.HasPrefix(sub.Use, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", want)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent verbose flag")
	}
}

func TestExecuteExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "help succeeds",
			args: []string{"--help"},
			want: exitCodeOK,
		},
		{
			name: "crawl with missing arguments is a usage error",
			args: []string{"crawl", "http://example.test/"},
			want: exitCodeUsage,
		},
		{
			name: "crawl with too many arguments is a usage error",
			args: []string{"crawl", "http://example.test/", "name", "extra"},
			want: exitCodeUsage,
		},
		{
			name: "unknown flag is a usage error",
			args: []string{"crawl", "--bogus", "http://example.test/", "name"},
			want: exitCodeUsage,
		},
		{
			name: "export with unknown format is a usage error",
			args: []string{"export", "--format", "xml", "name"},
			want: exitCodeUsage,
		},
		{
			name: "report on missing crawl is a runtime error",
			args: []string{"report", "--data-dir", t.TempDir(), "no-such-crawl"},
			want: exitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewRootCmd()
			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(tt.args)

			if got := execute(cmd); got != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if got := execute(cmd); got != exitCodeOK {
		t.Fatalf("expected exit code 0, got %d", got)
	}

	output := out.String()
	if !strings.Contains(output, "linkpatrol ") {
		t.Errorf("expected version output, got %q", output)
	}
	if !strings.Contains(output, "rev ") {
		t.Errorf("expected revision in output, got %q", output)
	}
}
