package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
)

// writeProject lays out a config, a data folder and returns the config path.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data")
	if err := os.MkdirAll(data, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"sales.txt":     "AakiTech's Q3 sales goal is $2M in new recurring revenue.",
		"furniture.txt": "The office furniture order includes standing desks and ergonomic chairs.",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(data, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	cfg := `ingest:
  directory: ./data
index:
  backend: sqlite
  path: ./vector_index
embedding:
  provider: hash
  hash:
    dimensions: 256
`
	path := filepath.Join(root, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "kb" {
		t.Errorf("Use = %q", cmd.Use)
	}
	want := []string{"ingest", "search", "serve", "tui", "status", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q missing", name)
		}
	}
	for _, flag := range []string{"config", "debug", "format"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("--%s flag missing", flag)
		}
	}
}

func TestIngestThenSearch(t *testing.T) {
	cfgPath := writeProject(t)

	out, _, err := run(t, "--config", cfgPath, "ingest")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.Contains(out, "Indexed 2 documents") {
		t.Errorf("ingest output = %q", out)
	}

	out, _, err = run(t, "--config", cfgPath, "search", "-k", "1", "What is AakiTech's Q3 sales goal?")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, want := range []string{"Found 1 relevant document:", "--- Result 1 (Score: ", "Source: sales.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "--config", cfgPath, "search", "--no-scores", "office", "chairs")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Contains(out, "(Score:") || !strings.Contains(out, "--- Result 2 ---") {
		t.Errorf("no-scores output:\n%s", out)
	}

	out, _, err = run(t, "--config", cfgPath, "--format", "json", "search", "sales")
	if err != nil {
		t.Fatalf("search json: %v", err)
	}
	var view present.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if view.State != present.StateResults || len(view.Results) != 2 {
		t.Errorf("view = %+v", view)
	}

	out, _, err = run(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Status:     ready") || !strings.Contains(out, "Documents:  2") {
		t.Errorf("status output:\n%s", out)
	}
}

func TestSearch_EmptyQueryWarns(t *testing.T) {
	cfgPath := writeProject(t)
	_, stderr, err := run(t, "--config", cfgPath, "search", "   ")
	if err != nil {
		t.Fatalf("empty query should not fail: %v", err)
	}
	if !strings.Contains(stderr, present.MsgEmptyQuery) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSearch_MissingIndex(t *testing.T) {
	cfgPath := writeProject(t)
	_, _, err := run(t, "--config", cfgPath, "search", "sales")
	if err == nil || !strings.Contains(err.Error(), "kb ingest") {
		t.Fatalf("err = %v, want missing-index error", err)
	}
}

func TestSearch_ProviderMismatch(t *testing.T) {
	cfgPath := writeProject(t)
	if _, _, err := run(t, "--config", cfgPath, "ingest"); err != nil {
		t.Fatal(err)
	}
	_, _, err := run(t, "--config", cfgPath, "search", "--provider", "openai", "sales")
	if err == nil || !strings.Contains(err.Error(), "different embedding provider") {
		t.Fatalf("err = %v, want provider mismatch", err)
	}
}

func TestStatus_NoIndex(t *testing.T) {
	cfgPath := writeProject(t)
	out, _, err := run(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not ready") {
		t.Errorf("status output:\n%s", out)
	}
}

func TestBadFlags(t *testing.T) {
	cfgPath := writeProject(t)
	if _, _, err := run(t, "--config", cfgPath, "--format", "xml", "status"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, _, err := run(t, "--config", cfgPath, "ingest", "--backend", "faiss"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestVersionCmd_Output(t *testing.T) {
	orig := versionInfo
	defer func() { versionInfo = orig }()
	SetVersion("1.2.3", "abc123", "2026-01-31")

	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"kb 1.2.3", "Commit: abc123", "Built:  2026-01-31"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
