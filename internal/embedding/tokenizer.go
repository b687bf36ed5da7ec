package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
)

// BERT special token IDs shared by the bert-base-uncased vocabulary family.
const (
	tokenPad = 0
	tokenUNK = 100
	tokenCLS = 101
	tokenSEP = 102
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer is a word-split tokenizer with hash-based token IDs.
// Its IDs do not match any pretrained vocabulary, so it is only used when
// embedding.onnx.tokenizer is set to "hash".
type SimpleTokenizer struct{}

// Tokenize splits text into words and produces padded token IDs up to maxTokens.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	words := SplitWords(strings.ToLower(text))
	ids := make([]int64, 0, len(words))
	for _, w := range words {
		ids = append(ids, int64(HashString(w)%30000)+1000)
	}
	return frame(ids, maxTokens)
}

// WordPieceTokenizer implements BERT uncased tokenization against a vocab.txt.
type WordPieceTokenizer struct {
	vocab        map[string]int64
	maxWordChars int
}

// ErrMissingVocab is returned when the ONNX provider is configured for WordPiece
// tokenization and the model vocabulary cannot be loaded.
var ErrMissingVocab = errors.New("onnx vocabulary not available")

// newONNXTokenizer picks the tokenizer for cfg. The hash tokenizer is used only
// when requested explicitly; WordPiece is the default and needs cfg.VocabPath.
func newONNXTokenizer(cfg config.ONNXConfig) (Tokenizer, error) {
	if cfg.Tokenizer == config.TokenizerHash {
		return &SimpleTokenizer{}, nil
	}
	if cfg.VocabPath == "" {
		return nil, fmt.Errorf("%w: embedding.onnx.vocab_path is not set", ErrMissingVocab)
	}
	wp, err := LoadWordPieceTokenizer(cfg.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingVocab, err)
	}
	return wp, nil
}

// LoadWordPieceTokenizer reads a vocabulary with one token per line; the line
// number is the token ID.
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		vocab[strings.TrimRight(scanner.Text(), "\r")] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocab %s is empty", path)
	}
	return NewWordPieceTokenizer(vocab), nil
}

// NewWordPieceTokenizer returns a tokenizer over an in-memory vocabulary.
func NewWordPieceTokenizer(vocab map[string]int64) *WordPieceTokenizer {
	return &WordPieceTokenizer{vocab: vocab, maxWordChars: 100}
}

// Tokenize lowercases text, splits on whitespace and punctuation, and applies
// greedy longest-match-first sub-word lookup. Unmatched words become [UNK].
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	var ids []int64
	for _, word := range basicTokens(text) {
		ids = append(ids, t.wordPieces(word)...)
		if len(ids) >= maxTokens {
			break
		}
	}
	return frame(ids, maxTokens)
}

func (t *WordPieceTokenizer) wordPieces(word string) []int64 {
	runes := []rune(word)
	if len(runes) > t.maxWordChars {
		return []int64{t.unk()}
	}
	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := int64(-1)
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if id, ok := t.vocab[sub]; ok {
				found = id
				break
			}
			end--
		}
		if found < 0 {
			return []int64{t.unk()}
		}
		pieces = append(pieces, found)
		start = end
	}
	return pieces
}

func (t *WordPieceTokenizer) unk() int64 {
	if id, ok := t.vocab["[UNK]"]; ok {
		return id
	}
	return tokenUNK
}

// basicTokens lowercases text and splits it on whitespace, emitting each
// punctuation rune as its own token.
func basicTokens(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			out = append(out, string(r))
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

// frame wraps ids in [CLS] ... [SEP], truncating and padding to maxTokens.
func frame(ids []int64, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens < 2 {
		maxTokens = 2
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	if len(ids) > maxTokens-2 {
		ids = ids[:maxTokens-2]
	}
	inputIDs[0] = tokenCLS
	attentionMask[0] = 1
	pos := 1
	for _, id := range ids {
		inputIDs[pos] = id
		attentionMask[pos] = 1
		pos++
	}
	inputIDs[pos] = tokenSEP
	attentionMask[pos] = 1
	for pos++; pos < maxTokens; pos++ {
		inputIDs[pos] = tokenPad
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on whitespace and returns non-empty words.
func SplitWords(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// HashString returns a deterministic non-negative hash for use as a simple token ID.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	if h < 0 {
		h = 0
	}
	return h
}
