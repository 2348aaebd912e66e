package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrEmptyContent is returned when there is nothing to render.
var ErrEmptyContent = errors.New("content is required")

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class", "aria-hidden", "target", "rel").OnElements("a")
	p.AllowAttrs("class").OnElements("code", "pre", "span", "div")
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("loading").OnElements("img")
	return p
}

// Render converts markdown/MDX source into sanitized HTML: GFM syntax,
// heading anchors, external links opening in a new tab, images wrapped in
// figures with the alt text as caption.
func Render(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptyContent
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	out := buf.String()
	out = rewriteHeadingAnchors(out)
	out = rewriteExternalLinks(out)
	out = rewriteImages(out)
	return policy.Sanitize(out), nil
}

var headingPattern = regexp.MustCompile(`<h([1-6]) id="([^"]+)">`)

// rewriteHeadingAnchors prepends a clickable anchor to every heading that
// carries an auto-generated id.
func rewriteHeadingAnchors(htmlText string) string {
	return headingPattern.ReplaceAllString(htmlText,
		`<h$1 id="$2"><a class="anchor" href="#$2" aria-hidden="true">#</a>`)
}

var externalLinkPattern = regexp.MustCompile(`<a href="(https?://[^"]+)">`)

// rewriteExternalLinks opens absolute links in a new tab. Relative links
// stay in-site.
func rewriteExternalLinks(htmlText string) string {
	return externalLinkPattern.ReplaceAllString(htmlText,
		`<a href="$1" target="_blank" rel="noopener noreferrer">`)
}

var imagePattern = regexp.MustCompile(`<p><img src="([^"]*)" alt="([^"]*)"\s*/?></p>`)

// rewriteImages turns standalone images into figures, using the alt text as
// a caption when present.
func rewriteImages(htmlText string) string {
	return imagePattern.ReplaceAllStringFunc(htmlText, func(match string) string {
		groups := imagePattern.FindStringSubmatch(match)
		if len(groups) != 3 {
			return match
		}
		src, alt := groups[1], groups[2]
		if alt == "" {
			return fmt.Sprintf(`<figure><img src="%s" alt="" loading="lazy"></figure>`, src)
		}
		return fmt.Sprintf(`<figure><img src="%s" alt="%s" loading="lazy"><figcaption>%s</figcaption></figure>`, src, alt, alt)
	})
}
