package document

import (
	"strings"

	"golang.org/x/net/html"
)

// voidElements have no end tag in HTML and must be self-closed in XML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTMLToXML rewrites possibly malformed HTML into well-formed XML text:
// raw '&', '<' and '>' in text content and '"' in attribute values are
// escaped, unclosed tags are closed at the end of their enclosing scope,
// stray end tags are discarded, and void elements are self-closed. The
// rewrite is pure and deterministic.
func HTMLToXML(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))

	var out strings.Builder
	var open []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			// End of input: close whatever is still open, innermost first.
			for i := len(open) - 1; i >= 0; i-- {
				out.WriteString("</")
				out.WriteString(open[i])
				out.WriteString(">")
			}
			return out.String()

		case html.TextToken:
			out.WriteString(escapeText(string(z.Text())))

		case html.StartTagToken:
			tok := z.Token()
			writeTag(&out, tok, voidElements[tok.Data])
			if !voidElements[tok.Data] {
				open = append(open, tok.Data)
			}

		case html.SelfClosingTagToken:
			writeTag(&out, z.Token(), true)

		case html.EndTagToken:
			tok := z.Token()
			idx := -1
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == tok.Data {
					idx = i
					break
				}
			}
			if idx < 0 {
				// Stray end tag with no matching start tag.
				continue
			}
			for i := len(open) - 1; i >= idx; i-- {
				out.WriteString("</")
				out.WriteString(open[i])
				out.WriteString(">")
			}
			open = open[:idx]

		case html.CommentToken:
			out.WriteString("<!--")
			out.WriteString(string(z.Token().Data))
			out.WriteString("-->")

		case html.DoctypeToken:
			// The HTML doctype declaration has no XML counterpart.
		}
	}
}

func writeTag(out *strings.Builder, tok html.Token, selfClose bool) {
	out.WriteString("<")
	out.WriteString(tok.Data)
	for _, attr := range tok.Attr {
		out.WriteString(" ")
		out.WriteString(attr.Key)
		out.WriteString(`="`)
		out.WriteString(escapeAttr(attr.Val))
		out.WriteString(`"`)
	}
	if selfClose {
		out.WriteString("/>")
	} else {
		out.WriteString(">")
	}
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "&quot;")
}
