// Package present turns a search form submission into a renderable view.
// The web UI, the terminal UI and the CLI all render the View it produces.
package present

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/search"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/pkg/utils"
)

// State is the outcome a view renders.
type State string

const (
	StateIdle    State = "idle"
	StateWarning State = "warning"
	StateError   State = "error"
	StateEmpty   State = "empty"
	StateResults State = "results"
)

// User-facing messages.
const (
	MsgEmptyQuery = "Please enter a question to search."
	MsgNoResults  = "No results found. Try rephrasing your question."
	UnknownSource = "Unknown"
)

// DefaultTruncateAt is the preview length, in characters, above which a
// result offers its full text separately.
const DefaultTruncateAt = 1000

// Form holds what the user submitted.
type Form struct {
	Query      string `json:"query"`
	Provider   string `json:"provider,omitempty"`
	Limit      int    `json:"limit"`
	ShowScores bool   `json:"show_scores"`
}

// NewForm returns a blank form with the given defaults.
func NewForm(provider string, limit int, showScores bool) Form {
	return Form{Provider: provider, Limit: models.ClampLimit(limit, models.DefaultLimit, models.MaxLimit), ShowScores: showScores}
}

// ResultView is one rendered hit.
type ResultView struct {
	Rank      int     `json:"rank"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	ShowScore bool    `json:"show_score"`
	Preview   string  `json:"preview"`
	Full      string  `json:"full"`
	Truncated bool    `json:"truncated"`
	Source    string  `json:"source"`
}

// View is everything a front end needs to draw one interaction.
type View struct {
	State     State        `json:"state"`
	Message   string       `json:"message,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	Form      Form         `json:"form"`
	Results   []ResultView `json:"results,omitempty"`
	QueryTime int64        `json:"query_time_ms,omitempty"`
}

// Presenter runs searches and builds views.
type Presenter struct {
	searcher   search.Searcher
	truncateAt int
	maxLimit   int
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithTruncateAt sets the preview length. Non-positive values keep the default.
func WithTruncateAt(n int) Option {
	return func(p *Presenter) {
		if n > 0 {
			p.truncateAt = n
		}
	}
}

// WithMaxLimit caps the result count a form may request.
func WithMaxLimit(n int) Option {
	return func(p *Presenter) {
		if n > 0 {
			p.maxLimit = n
		}
	}
}

// New returns a Presenter that queries s.
func New(s search.Searcher, opts ...Option) *Presenter {
	p := &Presenter{searcher: s, truncateAt: DefaultTruncateAt, maxLimit: models.MaxLimit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run submits form. A blank query produces a warning view without calling
// the searcher. Failures produce an error view; a successful search with no
// hits produces an empty view.
func (p *Presenter) Run(ctx context.Context, form Form) *View {
	form.Query = strings.TrimSpace(form.Query)
	form.Limit = models.ClampLimit(form.Limit, models.DefaultLimit, p.maxLimit)
	view := &View{Form: form}
	if form.Query == "" {
		view.State = StateWarning
		view.Message = MsgEmptyQuery
		return view
	}

	resp, err := p.searcher.Search(ctx, &models.SearchQuery{
		Query:      form.Query,
		Provider:   form.Provider,
		Limit:      form.Limit,
		ShowScores: &form.ShowScores,
	})
	if err != nil {
		view.State = StateError
		view.Message = ErrorMessage(err)
		view.Detail = err.Error()
		return view
	}
	view.QueryTime = resp.QueryTime
	if resp.Provider != "" {
		view.Form.Provider = resp.Provider
	}
	if len(resp.Results) == 0 {
		view.State = StateEmpty
		view.Message = MsgNoResults
		return view
	}
	view.State = StateResults
	view.Message = FoundMessage(len(resp.Results))
	view.Results = p.Results(resp.Results, form.ShowScores)
	return view
}

// Results renders hits in order.
func (p *Presenter) Results(results []*models.SearchResult, showScores bool) []ResultView {
	out := make([]ResultView, 0, len(results))
	for i, r := range results {
		out = append(out, RenderResult(i+1, r, showScores, p.truncateAt))
	}
	return out
}

// RenderResult renders one hit at position rank.
func RenderResult(rank int, r *models.SearchResult, showScores bool, truncateAt int) ResultView {
	var content, source string
	if r.Chunk != nil {
		content = r.Chunk.Content
		source = r.Chunk.Source()
	}
	preview, truncated := utils.TruncateRunes(content, truncateAt)
	return ResultView{
		Rank:      rank,
		Title:     Title(rank, r.Score, showScores),
		Score:     r.Score,
		ShowScore: showScores,
		Preview:   preview,
		Full:      content,
		Truncated: truncated,
		Source:    utils.BaseName(source, UnknownSource),
	}
}

// Title is "Result n", with the score appended when scores are shown.
func Title(rank int, score float64, showScores bool) string {
	if showScores {
		return fmt.Sprintf("Result %d (Score: %.4f)", rank, score)
	}
	return fmt.Sprintf("Result %d", rank)
}

// FoundMessage is the banner above a result list.
func FoundMessage(n int) string {
	if n == 1 {
		return "Found 1 relevant document:"
	}
	return fmt.Sprintf("Found %d relevant documents:", n)
}

// ErrorMessage maps a search failure to a message a user can act on.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyQuery):
		return MsgEmptyQuery
	case errors.Is(err, models.ErrIndexNotFound):
		return "No knowledge base index found. Run `kb ingest` to build it first."
	case errors.Is(err, models.ErrIndexCorrupt):
		return "The knowledge base index could not be read. Re-run `kb ingest` to rebuild it."
	case errors.Is(err, models.ErrProviderMismatch):
		return "The index was built with a different embedding provider. Switch provider or re-run `kb ingest`."
	case errors.Is(err, models.ErrUnknownProvider):
		return "Unknown embedding provider."
	default:
		return "Error searching: " + err.Error()
	}
}

// SampleQuestions are shown next to the search box as starting points.
func SampleQuestions() []string {
	return []string{
		"What is AakiTech's Q3 sales goal?",
		"Tell me about Project Pinda",
		"What's the marketing strategy for Q3?",
		"Who is Brighton?",
		"How does AakiTech use AI?",
	}
}
