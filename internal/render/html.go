package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body {
  background-color: #282828;
  color: #8A8A8A;
  font-family: monospace;
}
img {
  max-width: 100px;
}
h3 + ul img {
  width: 30px;
}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown renders p as a Markdown document: code, per-rarity totals,
// regions and a card table.
func Markdown(p *Page) string {
	var b strings.Builder
	b.WriteString("# Deck content\n\n## Code\n\n`" + p.Code + "`\n\n## Summary\n\n### Types\n\n")

	rarities := make([]string, 0, len(p.CardTypes))
	for r := range p.CardTypes {
		rarities = append(rarities, r)
	}
	sort.Strings(rarities)
	for _, r := range rarities {
		total := 0
		for _, cc := range p.CardTypes[r] {
			total += cc.Count
		}
		fmt.Fprintf(&b, "- %s: %d\n", escape(r), total)
	}

	b.WriteString("\n### Regions\n\n")
	regions := make([]string, 0, len(p.MatchedRegions))
	for code := range p.MatchedRegions {
		regions = append(regions, code)
	}
	sort.Strings(regions)
	for _, code := range regions {
		r := p.MatchedRegions[code]
		if r.IconAbsolutePath != "" {
			fmt.Fprintf(&b, "- ![%s](%s) %s: %s\n", code, r.IconAbsolutePath, code, escape(r.Name))
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", code, escape(r.Name))
		}
	}

	b.WriteString("\n## Cards\n\n| Code | Count | Art | Name |\n| --- | ---: | --- | --- |\n")
	for _, cc := range p.Cards {
		art, name := "", ""
		if m, ok := p.MatchedCards[cc.Code]; ok {
			name = escape(m.Name)
			if url := m.ImageURL(); url != "" {
				art = fmt.Sprintf("![%s](%s)", cc.Code, url)
			}
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", cc.Code, cc.Count, art, name)
	}
	return b.String()
}

// HTML renders p as a standalone dark-themed HTML page.
func HTML(p *Page) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(p)), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{p.Code, template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
