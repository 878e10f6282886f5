package utils

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)

	// posts are markdown with images and links
	postPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowImages()
		p.AddTargetBlankToFullyQualifiedLinks(true)
		p.RequireNoReferrerOnLinks(true)
		return p
	}()

	// comments are one-liners: inline formatting only
	commentPolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "code", "s", "del")
		return p
	}()
)

// RenderPost turns a post body (markdown) into HTML safe to embed in a page.
func RenderPost(body string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(shapePostHTML(postPolicy.SanitizeBytes(buf.Bytes())))
}

// shapePostHTML fits sanitized post HTML into a post card: images load lazily
// without leaking the referrer, and headings are demoted below the card title.
func shapePostHTML(sanitized []byte) string {
	if len(sanitized) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(sanitized))
	if err != nil {
		return string(sanitized)
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Data = "h4"
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return string(sanitized)
	}
	return out
}

// SanitizeComment strips everything but inline formatting and trims the result.
func SanitizeComment(body string) string {
	return strings.TrimSpace(commentPolicy.Sanitize(body))
}
