package codec

import (
	"html"
	"sort"
	"strings"

	"github.com/vmprov/dataopt/schema"
)

const htmlStyle = `<style>
.data-structure {
    font-family: Arial, sans-serif;
    margin: 20px;
    padding: 20px;
    border: 1px solid #ddd;
    border-radius: 5px;
}
.data-structure ul {
    list-style-type: none;
    padding-left: 20px;
}
.data-structure li {
    margin: 5px 0;
}
.data-structure strong {
    color: #333;
}
</style>`

// EncodeHTML renders v as a standalone HTML document. Mappings become nested
// lists with one item per key, sorted. Keys and values are escaped.
func EncodeHTML(v any) ([]byte, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Data Structure</title>\n")
	b.WriteString(htmlStyle)
	b.WriteString("\n</head>\n<body>\n<div class=\"data-structure\">\n")
	if m, ok := schema.AsMapping(v); ok {
		htmlItems(&b, m)
	} else if seq, ok := schema.AsSequence(v); ok {
		htmlSequence(&b, seq)
	} else {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(Text(v)))
		b.WriteString("</p>\n")
	}
	b.WriteString("</div>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

func htmlList(b *strings.Builder, m map[string]any) {
	b.WriteString("<ul>\n")
	htmlItems(b, m)
	b.WriteString("</ul>\n")
}

func htmlItems(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := "<li><strong>" + html.EscapeString(k) + ":</strong>"
		v := m[k]
		if sub, ok := schema.AsMapping(v); ok {
			b.WriteString(label + "\n")
			htmlList(b, sub)
			b.WriteString("</li>\n")
			continue
		}
		if seq, ok := schema.AsSequence(v); ok {
			b.WriteString(label + "\n")
			htmlSequence(b, seq)
			b.WriteString("</li>\n")
			continue
		}
		b.WriteString(label + " " + html.EscapeString(Text(v)) + "</li>\n")
	}
}

func htmlSequence(b *strings.Builder, seq []any) {
	b.WriteString("<ul>\n")
	for _, item := range seq {
		b.WriteString("<li>")
		if sub, ok := schema.AsMapping(item); ok {
			b.WriteString("\n")
			htmlList(b, sub)
		} else {
			b.WriteString(html.EscapeString(Text(item)))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}
