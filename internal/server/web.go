package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
	"go.uber.org/zap"
)

// pageData feeds pageTemplate.
type pageData struct {
	View      *present.View
	Providers []string
	Samples   []string
	MaxLimit  int
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}).Parse(pageHTML))

// handleIndexPage renders the search page. A request without a q parameter
// shows the empty form; any request carrying q, even blank, is a submission.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	defaultLimit, maxLimit := s.engine.Limits()
	form := present.NewForm(s.engine.DefaultProvider(), defaultLimit, s.config.Search.ShowScoresOrDefault())
	params := r.URL.Query()

	var view *present.View
	if params.Has("q") {
		form = parseForm(params, form)
		view = s.presenter.Run(r.Context(), form)
		if view.State == present.StateError {
			s.logger.Warn("search failed", zap.String("query", form.Query), zap.String("error", view.Detail))
		}
	} else {
		view = &present.View{State: present.StateIdle, Form: form}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		View:      view,
		Providers: embedding.Providers(),
		Samples:   present.SampleQuestions(),
		MaxLimit:  maxLimit,
	})
	if err != nil {
		s.logger.Error("render page failed", zap.Error(err))
	}
}

// parseForm reads the submitted fields over the defaults in form. The scores
// checkbox only counts as unchecked when the form itself was submitted.
func parseForm(params url.Values, form present.Form) present.Form {
	form.Query = params.Get("q")
	if p := strings.TrimSpace(params.Get("provider")); p != "" {
		form.Provider = p
	}
	if k, err := strconv.Atoi(params.Get("k")); err == nil {
		form.Limit = k
	}
	if params.Has("submitted") {
		form.ShowScores = params.Get("scores") != ""
	}
	return form
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AakiTech Knowledge Base</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; color: #222; }
aside { width: 260px; padding: 1.5rem; background: #f4f5f7; min-height: 100vh; box-sizing: border-box; }
main { flex: 1; padding: 1.5rem 2.5rem; max-width: 960px; }
.search { display: flex; gap: .5rem; }
.search input[type=text] { flex: 1; padding: .6rem; font-size: 1rem; }
.search button { padding: .6rem 1.2rem; font-size: 1rem; }
.banner { padding: .75rem 1rem; border-radius: 4px; margin: 1rem 0; }
.warning { background: #fff4e5; }
.error { background: #fdecea; }
.success { background: #e8f5e9; }
.result { border: 1px solid #ddd; border-radius: 4px; padding: .75rem 1rem; margin-bottom: 1rem; }
.result h3 { margin: 0 0 .5rem; font-size: 1rem; }
.content { white-space: pre-wrap; }
.detail { color: #666; font-size: .85rem; }
footer { margin-top: 2rem; text-align: center; color: gray; }
</style>
</head>
<body>
<form method="get" action="/" style="display: contents">
<input type="hidden" name="submitted" value="1">
<aside>
<h2>Settings</h2>
<p><label>Embedding provider<br>
<select name="provider">
{{- range .Providers}}
<option value="{{.}}"{{if eq . $.View.Form.Provider}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label></p>
<p><label>Number of results<br>
<select name="k">
{{- range seq .MaxLimit}}
<option value="{{.}}"{{if eq . $.View.Form.Limit}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label></p>
<p><label><input type="checkbox" name="scores" value="1"{{if .View.Form.ShowScores}} checked{{end}}> Show similarity scores</label></p>
<hr>
<h3>Sample Questions</h3>
<ul>
{{- range .Samples}}
<li><a href="/?q={{.}}">{{.}}</a></li>
{{- end}}
</ul>
</aside>
<main>
<h1>AakiTech Internal Knowledge Base</h1>
<p><strong>Ask questions about your documents and get instant answers!</strong></p>
<div class="search">
<input type="text" name="q" value="{{.View.Form.Query}}" placeholder="e.g., What is AakiTech's Q3 sales goal?" aria-label="Ask a question">
<button type="submit">Search</button>
</div>
{{- with .View}}
{{- if eq .State "warning"}}
<div class="banner warning" data-state="warning">{{.Message}}</div>
{{- else if eq .State "error"}}
<div class="banner error" data-state="error">{{.Message}}<div class="detail">{{.Detail}}</div></div>
{{- else if eq .State "empty"}}
<div class="banner warning" data-state="empty">{{.Message}}</div>
{{- else if eq .State "results"}}
<div class="banner success" data-state="results">{{.Message}}</div>
{{- range .Results}}
<section class="result">
<h3>{{.Title}}</h3>
<p><strong>Content:</strong></p>
<div class="content">{{.Preview}}</div>
{{- if .Truncated}}
<details><summary>Show full content</summary><div class="content">{{.Full}}</div></details>
{{- end}}
<p><strong>Source:</strong> <code>{{.Source}}</code></p>
</section>
{{- end}}
{{- end}}
{{- end}}
<footer>AakiTech Knowledge Base</footer>
</main>
</form>
</body>
</html>
`
