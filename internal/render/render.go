// Package render turns backend responses into HTML fragments.
//
// All values are escaped by html/template. The only trusted HTML comes from
// goldmark, which is configured without raw HTML passthrough.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// Renderer holds the parsed fragment templates and markdown pipelines.
type Renderer struct {
	md   goldmark.Markdown
	code goldmark.Markdown
	tmpl *template.Template
}

// New parses the fragment templates.
func New() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		code: goldmark.New(
			goldmark.WithExtensions(
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
		),
	}

	funcs := template.FuncMap{
		"inc":      func(i int) int { return i + 1 },
		"percent1": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
		"percent0": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
		"hours":    func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
		"markdown": r.Markdown,
		"code":     r.Code,
	}

	tmpl := template.New("render").Funcs(funcs)
	for name, src := range map[string]string{
		"search":    searchTemplate,
		"synthesis": synthesisTemplate,
		"poc":       pocDetailsTemplate,
		"pocraw":    pocRawTemplate,
		"history":   historyTemplate,
		"status":    statusTemplate,
		"chat":      chatTemplate,
	} {
		if _, err := tmpl.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Search renders numbered search results, or the view's empty message.
func (r *Renderer) Search(v SearchView) (template.HTML, error) {
	return r.execute("search", v)
}

// Synthesis renders the agent synthesis block. A nil view renders nothing.
func (r *Renderer) Synthesis(v *SynthesisView) (template.HTML, error) {
	if v == nil {
		return "", nil
	}
	return r.execute("synthesis", v)
}

// POCDetails renders structured POC details.
func (r *Renderer) POCDetails(v POCDetailsView) (template.HTML, error) {
	return r.execute("poc", v)
}

// POCRaw renders a POC response as indented JSON, followed by its
// instructions as markdown when present.
func (r *Renderer) POCRaw(raw json.RawMessage, instructions string) (template.HTML, error) {
	return r.execute("pocraw", struct {
		JSON         string
		Instructions string
	}{prettyJSON(raw), instructions})
}

// History renders a numbered POC history list.
func (r *Renderer) History(items []HistoryItem) (template.HTML, error) {
	return r.execute("history", items)
}

// Status renders the status document and the system info table.
func (r *Renderer) Status(v StatusView) (template.HTML, error) {
	return r.execute("status", v)
}

// ChatMessage renders one chat bubble. content is always escaped.
func (r *Renderer) ChatMessage(role, content string) (template.HTML, error) {
	return r.execute("chat", struct {
		Role    string
		Content string
	}{role, content})
}

// Markdown renders src as HTML. Raw HTML in src is dropped.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

// Code renders src as a highlighted code block.
func (r *Renderer) Code(lang, src string) template.HTML {
	fence := "```"
	for strings.Contains(src, fence) {
		fence += "`"
	}
	var buf bytes.Buffer
	if err := r.code.Convert([]byte(fence+lang+"\n"+src+"\n"+fence+"\n"), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

// Escape escapes s for inclusion in HTML text.
func Escape(s string) string {
	return template.HTMLEscapeString(s)
}

// PlainText returns the text content of an HTML fragment, one block per line.
func PlainText(fragment template.HTML) string {
	z := html.NewTokenizer(strings.NewReader(string(fragment)))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseBlankLines(sb.String())
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br":
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "h4", "li", "pre", "tr", "ul":
				sb.WriteByte('\n')
			case "td":
				sb.WriteByte('\t')
			}
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if strings.TrimSpace(l) == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}
