// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package brief renders a Markdown research brief from multi-source
// research results and claim verdicts, ready to hand to a writer.
package brief

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/pkg/types"
)

// snippetLimit caps snippet length in the brief.
const snippetLimit = 300

// Brief is the input to Render.
type Brief struct {
	Topic       string
	GeneratedAt time.Time
	Results     []types.ScoredResult
	Verdicts    []types.VerificationVerdict
}

// section groups one category's results for the template.
type section struct {
	Category types.SourceCategory
	Title    string
	Results  []types.ScoredResult
}

type view struct {
	Topic        string
	Slug         string
	GeneratedAt  string
	Total        int
	Sections     []section
	Distribution []distRow
	Verdicts     []types.VerificationVerdict
}

type distRow struct {
	Category types.SourceCategory
	Count    int
	Percent  string
}

var categoryTitles = map[types.SourceCategory]string{
	types.CategoryAcademic:        "Academic Research",
	types.CategoryGovernment:      "Government Sources",
	types.CategoryCompanyResearch: "Company Research",
	types.CategoryIndustry:        "Industry Coverage",
	types.CategoryAIBlogs:         "AI Blogs",
}

var funcs = template.FuncMap{
	"clean": func(s string) string { return textutil.Truncate(textutil.StripTags(s), snippetLimit) },
	"score": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"inc":   func(i int) int { return i + 1 },
}

var briefTmpl = template.Must(template.New("brief").Funcs(funcs).Parse(`# Research Brief: {{.Topic}}

_Generated {{.GeneratedAt}} · {{.Total}} credible sources · slug ` + "`{{.Slug}}`" + `_
{{range .Sections}}
## {{.Title}}
{{range $i, $r := .Results}}
{{inc $i}}. [{{clean $r.Title}}]({{$r.URL}}) (credibility {{score $r.CredibilityScore}})
{{- if $r.Snippet}}
   > {{clean $r.Snippet}}
{{- end}}
{{end}}{{end}}
{{- if .Verdicts}}
## Claim Verification
{{range .Verdicts}}
- **{{.Claim}}**: {{.Status}} ({{.Confidence}} confidence, {{.SourcesChecked}} sources checked)
{{- range .Evidence}}
  - [{{clean .Title}}]({{.URL}}) · {{.SourceCategory}} {{score .CredibilityScore}}
{{- end}}
{{end}}{{end}}
## Source Distribution

| Category | Sources | Share |
|----------|---------|-------|
{{- range .Distribution}}
| {{.Category}} | {{.Count}} | {{.Percent}} |
{{- end}}
`))

// Render writes b as Markdown to w. Results are grouped by category in
// declared order, keeping their ranked order within each group. Empty
// categories are omitted.
func Render(w io.Writer, b Brief) error {
	v := view{
		Topic: strings.TrimSpace(b.Topic),
		Slug:  textutil.Slug(b.Topic),
		Total: len(b.Results),
	}
	at := b.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	v.GeneratedAt = at.UTC().Format("2006-01-02 15:04 MST")

	byCat := make(map[types.SourceCategory][]types.ScoredResult)
	for _, r := range b.Results {
		byCat[r.SourceCategory] = append(byCat[r.SourceCategory], r)
	}
	for _, c := range types.Categories {
		rs := byCat[c]
		if len(rs) == 0 {
			continue
		}
		v.Sections = append(v.Sections, section{Category: c, Title: categoryTitles[c], Results: rs})
		v.Distribution = append(v.Distribution, distRow{
			Category: c,
			Count:    len(rs),
			Percent:  fmt.Sprintf("%.0f%%", 100*float64(len(rs))/float64(len(b.Results))),
		})
	}
	v.Verdicts = b.Verdicts

	return briefTmpl.Execute(w, v)
}

// FileName returns the default brief file name for a topic.
func FileName(topic string) string {
	slug := textutil.Slug(topic)
	if slug == "" {
		slug = "research"
	}
	return slug + "-brief.md"
}
