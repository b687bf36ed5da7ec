// Package cli renders search views, ingest reports and index status for the kb command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/search"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json"; anything else is an error.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", s)
	}
}

// WriteView writes a search view to w. With full set, text output prints
// every result's complete content instead of its preview.
func WriteView(w io.Writer, view *present.View, format OutputFormat, full bool) error {
	if format == OutputJSON {
		return writeJSON(w, view)
	}
	if view.Form.Query != "" {
		fmt.Fprintf(w, "Query: %s\n", view.Form.Query)
	}
	if view.Message != "" {
		fmt.Fprintln(w, view.Message)
	}
	if view.State == present.StateError && view.Detail != "" {
		fmt.Fprintf(w, "  %s\n", view.Detail)
	}
	if view.State != present.StateResults {
		return nil
	}
	fmt.Fprintln(w)
	for _, r := range view.Results {
		fmt.Fprintf(w, "--- %s ---\n", r.Title)
		content := r.Preview
		if full {
			content = r.Full
		}
		fmt.Fprintf(w, "Content: %s\n", content)
		fmt.Fprintf(w, "Source: %s\n\n", r.Source)
	}
	return nil
}

// WriteReport writes an ingest report to w.
func WriteReport(w io.Writer, report *indexer.Report, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintf(w, "Indexed %d documents into %d chunks in %s\n",
		report.Documents, report.Chunks, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Index:     %s (%s)\n", report.IndexPath, report.Backend)
	fmt.Fprintf(w, "Embedding: %s / %s (%d dimensions)\n", report.Provider, report.Model, report.Dimensions)
	fmt.Fprintf(w, "Build ID:  %s\n", report.BuildID)
	return nil
}

// WriteStatus writes index status to w.
func WriteStatus(w io.Writer, st *search.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Index path: %s\n", st.IndexPath)
	fmt.Fprintf(w, "Backend:    %s\n", st.Backend)
	if !st.Ready {
		fmt.Fprintf(w, "Status:     not ready (%s)\n", st.Error)
		return nil
	}
	m := st.Manifest
	fmt.Fprintf(w, "Status:     ready\n")
	fmt.Fprintf(w, "Embedding:  %s / %s (%d dimensions)\n", m.Provider, m.Model, m.Dimensions)
	fmt.Fprintf(w, "Documents:  %d\n", m.Documents)
	fmt.Fprintf(w, "Chunks:     %d (size %d, overlap %d)\n", m.Chunks, m.ChunkSize, m.ChunkOverlap)
	fmt.Fprintf(w, "Built:      %s\n", m.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Disk usage: %s\n", FormatBytes(st.DiskBytes))
	if len(st.Sources) > 0 {
		fmt.Fprintln(w, "Sources:")
		for _, s := range st.Sources {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	return nil
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
