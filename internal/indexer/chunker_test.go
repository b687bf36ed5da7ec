package indexer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
)

func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewChunker_invalid(t *testing.T) {
	for _, tc := range [][2]int{{0, 0}, {-1, 0}, {10, 10}, {10, 11}, {10, -1}} {
		if _, err := NewChunker(tc[0], tc[1]); err == nil {
			t.Errorf("NewChunker(%d, %d) should fail", tc[0], tc[1])
		}
	}
}

func assertChunkInvariants(t *testing.T, chunks []string, size, overlap int) {
	t.Helper()
	for i, ch := range chunks {
		if n := utf8.RuneCountInString(ch); n > size {
			t.Errorf("chunk %d has %d runes, max %d", i, n, size)
		}
		if i == 0 || overlap == 0 {
			continue
		}
		prev := []rune(chunks[i-1])
		cur := []rune(ch)
		if len(prev) < overlap || len(cur) < overlap {
			t.Fatalf("chunk %d shorter than overlap", i)
		}
		if string(prev[len(prev)-overlap:]) != string(cur[:overlap]) {
			t.Errorf("chunks %d and %d do not share %d runes: %q / %q",
				i-1, i, overlap, string(prev[len(prev)-overlap:]), string(cur[:overlap]))
		}
	}
}

func TestChunker_Split(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		size, overlap int
		minChunks     int
	}{
		{"short text is one chunk", "AakiTech Q3 sales goal.", 500, 50, 1},
		{"words", strings.Repeat("alpha beta gamma delta ", 80), 100, 20, 10},
		{"no whitespace", strings.Repeat("x", 1234), 100, 10, 13},
		{"zero overlap", strings.Repeat("one two three ", 50), 40, 0, 10},
		{"multibyte", strings.Repeat("ñandú café 東京 ", 60), 50, 7, 10},
		{"paragraphs", strings.Repeat("Project Pinda launch.\n\nBrighton office.\n", 30), 500, 50, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustChunker(t, tt.size, tt.overlap)
			chunks := c.Split(tt.text)
			if len(chunks) < tt.minChunks {
				t.Fatalf("got %d chunks, want at least %d", len(chunks), tt.minChunks)
			}
			assertChunkInvariants(t, chunks, tt.size, tt.overlap)
		})
	}
}

func TestChunker_SplitCoversText(t *testing.T) {
	text := strings.Repeat("The marketing strategy for Q3 focuses on AI integrations. ", 40)
	c := mustChunker(t, 120, 15)
	chunks := c.Split(text)
	var b strings.Builder
	for i, ch := range chunks {
		r := []rune(ch)
		if i > 0 {
			r = r[15:]
		}
		b.WriteString(string(r))
	}
	if b.String() != text {
		t.Error("chunks minus overlaps should reassemble the original text")
	}
}

func TestChunker_SplitPrefersWhitespace(t *testing.T) {
	c := mustChunker(t, 12, 2)
	chunks := c.Split("hello world again and more")
	if chunks[0] != "hello world " {
		t.Errorf("first chunk = %q, want cut after a space", chunks[0])
	}
}

func TestChunker_SplitBlank(t *testing.T) {
	c := mustChunker(t, 5, 1)
	if chunks := c.Split("   \n\t  "); chunks != nil {
		t.Errorf("blank text should return nil, got %v", chunks)
	}
}

func TestChunker_Chunk(t *testing.T) {
	c := mustChunker(t, 10, 2)
	doc := &models.Document{ID: "doc:1", Source: "/docs/sales.txt", Content: "one two three four five six seven"}
	chunks := c.Chunk(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.DocumentID != "doc:1" {
			t.Errorf("chunk %d DocumentID=%s", i, ch.DocumentID)
		}
		if ch.Index != i {
			t.Errorf("chunk %d Index=%d", i, ch.Index)
		}
		if ch.Source() != "/docs/sales.txt" {
			t.Errorf("chunk %d source=%q", i, ch.Source())
		}
	}
	if chunks[0].ID == chunks[1].ID {
		t.Error("chunk IDs should be distinct")
	}
}

func TestPreprocess(t *testing.T) {
	if got := Preprocess("\ufeffa\r\nb\rc"); got != "a\nb\nc" {
		t.Errorf("Preprocess = %q", got)
	}
	if got := Preprocess("  a  b  "); got != "  a  b  " {
		t.Errorf("inner whitespace should be kept, got %q", got)
	}
}
