package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/search"
)

func resultsView() *present.View {
	return &present.View{
		State:   present.StateResults,
		Message: "Found 1 relevant document:",
		Form:    present.Form{Query: "sales goal", Limit: 3, ShowScores: true},
		Results: []present.ResultView{{
			Rank:      1,
			Title:     "Result 1 (Score: 0.8123)",
			Score:     0.8123,
			Preview:   "AakiTech Q3...",
			Full:      "AakiTech Q3 sales goal is $2M",
			Truncated: true,
			Source:    "sales.txt",
		}},
	}
}

func TestWriteView_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteView(&buf, resultsView(), OutputText, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Query: sales goal",
		"Found 1 relevant document:",
		"--- Result 1 (Score: 0.8123) ---",
		"Content: AakiTech Q3...",
		"Source: sales.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteView(&buf, resultsView(), OutputText, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Content: AakiTech Q3 sales goal is $2M") {
		t.Errorf("full output missing full content:\n%s", buf.String())
	}
}

func TestWriteView_States(t *testing.T) {
	tests := []struct {
		view *present.View
		want string
	}{
		{&present.View{State: present.StateWarning, Message: present.MsgEmptyQuery}, present.MsgEmptyQuery},
		{&present.View{State: present.StateEmpty, Message: present.MsgNoResults, Form: present.Form{Query: "x"}}, present.MsgNoResults},
		{&present.View{State: present.StateError, Message: "No index", Detail: "vector index not found"}, "vector index not found"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteView(&buf, tt.view, OutputText, false); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("state %s: output %q missing %q", tt.view.State, buf.String(), tt.want)
		}
		if strings.Contains(buf.String(), "--- Result") {
			t.Errorf("state %s printed results", tt.view.State)
		}
	}
}

func TestWriteView_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteView(&buf, resultsView(), OutputJSON, false); err != nil {
		t.Fatal(err)
	}
	var decoded present.View
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.State != present.StateResults || len(decoded.Results) != 1 || decoded.Results[0].Source != "sales.txt" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteReport(t *testing.T) {
	report := &indexer.Report{
		IndexPath: "/tmp/vector_index", Backend: "flat", Provider: "hash", Model: "feature-hash-v1",
		Documents: 2, Chunks: 5, Dimensions: 512, BuildID: "b1", Duration: 1500 * time.Millisecond,
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, report, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Indexed 2 documents into 5 chunks in 1.5s") {
		t.Errorf("report = %s", buf.String())
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	notReady := &search.Status{IndexPath: "/x", Backend: "flat", Error: "vector index not found"}
	if err := WriteStatus(&buf, notReady, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "not ready (vector index not found)") {
		t.Errorf("status = %s", buf.String())
	}

	buf.Reset()
	ready := &search.Status{
		Ready: true, IndexPath: "/x", Backend: "sqlite", DiskBytes: 2048,
		Manifest: &models.Manifest{Provider: "hash", Documents: 2, Chunks: 3},
		Sources:  []string{"/data/a.txt"},
	}
	if err := WriteStatus(&buf, ready, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Status:     ready", "Documents:  2", "Disk usage: 2.0 KiB", "/data/a.txt"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("status missing %q:\n%s", want, buf.String())
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": OutputText, "text": OutputText, "JSON": OutputJSON} {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{0: "0 B", 1023: "1023 B", 1024: "1.0 KiB", 1536: "1.5 KiB", 1 << 20: "1.0 MiB"}
	for in, want := range tests {
		if got := FormatBytes(in); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
