package crud

import (
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
)

// Text escapes s for a table cell.
func Text(s string) template.HTML {
	return template.HTML(html.EscapeString(s))
}

// Int renders an integer cell.
func Int(n int64) template.HTML {
	return template.HTML(strconv.FormatInt(n, 10))
}

// Decimal renders a price with two decimals.
func Decimal(f float64) template.HTML {
	return template.HTML(strconv.FormatFloat(f, 'f', 2, 64))
}

// Check renders a boolean as a tick or a dash.
func Check(b bool) template.HTML {
	if b {
		return `<span class="badge ok">&#10003;</span>`
	}
	return `<span class="muted">&ndash;</span>`
}

// Date trims a backend timestamp ("2026-01-02T10:00:00.123") to date and minutes.
func Date(s string) template.HTML {
	s = strings.Replace(s, "T", " ", 1)
	if len(s) > 16 {
		s = s[:16]
	}
	return Text(s)
}

// Image renders a thumbnail for a non-empty url.
func Image(url string) template.HTML {
	if url == "" {
		return `<span class="muted">&ndash;</span>`
	}
	return template.HTML(fmt.Sprintf(`<img class="thumb" src="%s" alt="">`, html.EscapeString(url)))
}

// Link renders an anchor; label is a literal already translated by the caller.
func Link(href, label, class string) template.HTML {
	return template.HTML(fmt.Sprintf(`<a class="%s" href="%s">%s</a>`,
		html.EscapeString(class), html.EscapeString(href), html.EscapeString(label)))
}

// Badge renders a status pill.
func Badge(label string) template.HTML {
	cls := strings.ToLower(strings.ReplaceAll(label, " ", "-"))
	return template.HTML(fmt.Sprintf(`<span class="badge status-%s">%s</span>`,
		html.EscapeString(cls), html.EscapeString(label)))
}

// Join concatenates cell fragments, e.g. several action links.
func Join(parts ...template.HTML) template.HTML {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(string(p))
	}
	return template.HTML(b.String())
}
