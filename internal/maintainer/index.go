package maintainer

import (
	"bytes"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/serverless-qa/report-pages/internal/categories"
	"github.com/serverless-qa/report-pages/internal/constants"
	"github.com/serverless-qa/report-pages/internal/report"
)

// The index document is regenerated wholesale on every pass. It is never
// patched in place, so it can not drift from the on-disk report set.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Reports</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 48rem; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: .3rem; }
ul.report-list { list-style: none; padding: 0; }
li.report-item { margin: .6rem 0; }
a.report-link { font-weight: bold; }
div.timestamp { color: #666; font-size: .85rem; }
footer { margin-top: 3rem; color: #999; font-size: .8rem; }
</style>
</head>
<body>
<h1>Test Reports</h1>
{{- range .Sections }}
<section id="{{ .Token }}">
<h2>{{ .Title }}</h2>
<ul class="report-list">
{{- range .Entries }}
<li class="report-item">
<a href="{{ .Name }}" class="report-link">{{ .Name }}</a>
<div class="timestamp">Generated on: {{ .Timestamp }}</div>
</li>
{{- else }}
<li class="report-item">No reports.</li>
{{- end }}
</ul>
</section>
{{- end }}
<footer>Last updated: {{ .GeneratedAt }}</footer>
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

type indexData struct {
	Sections    []indexSection
	GeneratedAt string
}

type indexSection struct {
	Token   string
	Title   string
	Entries []indexEntry
}

type indexEntry struct {
	Name      string
	Timestamp string
}

// renderIndex produces the index document for the surviving report set.
//
// Sections follow catalog order, entries are newest first. The output is
// byte-identical for a given set, apart from the generated-at stamp.
func (m Maintainer) renderIndex(set report.Set, generatedAt time.Time) ([]byte, error) {
	data := indexData{
		GeneratedAt: generatedAt.Format(constants.DisplayTimeLayout),
	}

	for _, category := range m.cfg.Catalog.All() {
		data.Sections = append(data.Sections, indexSection{
			Token:   category.Token,
			Title:   category.Title,
			Entries: entries(set[category.Token]),
		})
	}

	if m.cfg.IncludeOther {
		if other := otherReports(set, m.cfg.Catalog); len(other) > 0 {
			data.Sections = append(data.Sections, indexSection{
				Token:   "other",
				Title:   "Other",
				Entries: entries(other),
			})
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func entries(reports []report.Report) []indexEntry {
	es := make([]indexEntry, 0, len(reports))
	for _, r := range reports {
		es = append(es, indexEntry{
			Name:      r.Name,
			Timestamp: r.Time.Format(constants.DisplayTimeLayout),
		})
	}
	return es
}

// otherReports merges all unrecognized-category reports, newest first.
func otherReports(set report.Set, catalog categories.Catalog) []report.Report {
	var other []report.Report
	for token, reports := range set {
		if catalog.Recognized(token) {
			continue
		}
		other = append(other, reports...)
	}
	slices.SortFunc(other, func(a, b report.Report) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		return strings.Compare(b.Name, a.Name)
	})
	return other
}
