package bootstrap

import (
	"html"
	"html/template"
	"strings"
)

// Attr is a single HTML attribute. Attributes are rendered in the order given.
type Attr struct {
	Name  string
	Value string
}

// RenderTag builds <tag attrs>content</tag>. The closing tag is written when
// content is not empty or close is true. Attribute values and content are
// escaped, attributes with an empty value are left out. The result is marked
// safe so that template engines embed it verbatim.
func RenderTag(tag string, attrs []Attr, content string, close bool) template.HTML {
	var builder strings.Builder
	builder.WriteByte('<')
	builder.WriteString(tag)
	for _, attr := range attrs {
		if attr.Value == "" {
			continue
		}
		builder.WriteByte(' ')
		builder.WriteString(attr.Name)
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(attr.Value))
		builder.WriteByte('"')
	}
	builder.WriteByte('>')
	builder.WriteString(html.EscapeString(content))
	if content != "" || close {
		builder.WriteString("</")
		builder.WriteString(tag)
		builder.WriteByte('>')
	}
	return template.HTML(builder.String())
}

// RenderScriptTag builds a <script> tag for the record, or nothing if the
// record has no URL.
func RenderScriptTag(rec URLRecord) template.HTML {
	if rec.IsZero() {
		return ""
	}
	return RenderTag("script", []Attr{
		{Name: "src", Value: rec.URL},
		{Name: "integrity", Value: rec.Integrity},
		{Name: "crossorigin", Value: rec.CrossOrigin},
	}, "", true)
}

// RenderLinkTag builds a <link> tag for the record, or nothing if the record
// has no URL. An empty rel defaults to "stylesheet"; media is optional.
func RenderLinkTag(rec URLRecord, rel, media string) template.HTML {
	if rec.IsZero() {
		return ""
	}
	if rel == "" {
		rel = "stylesheet"
	}
	return RenderTag("link", []Attr{
		{Name: "rel", Value: rel},
		{Name: "href", Value: rec.URL},
		{Name: "integrity", Value: rec.Integrity},
		{Name: "crossorigin", Value: rec.CrossOrigin},
		{Name: "media", Value: media},
	}, "", false)
}
