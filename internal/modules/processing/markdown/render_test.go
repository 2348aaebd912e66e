package markdown

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderEmptyContent(t *testing.T) {
	for _, source := range []string{"", "   ", "\n\t"} {
		if _, err := Render(source); !errors.Is(err, ErrEmptyContent) {
			t.Fatalf("Render(%q): expected ErrEmptyContent, got %v", source, err)
		}
	}
}

func TestRenderHeadingAnchors(t *testing.T) {
	out, err := Render("# Hello World")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `id="hello-world"`) {
		t.Fatalf("heading id missing: %s", out)
	}
	if !strings.Contains(out, `href="#hello-world"`) {
		t.Fatalf("heading anchor missing: %s", out)
	}
}

func TestRenderGFMTable(t *testing.T) {
	source := "| a | b |\n| - | - |\n| 1 | 2 |"
	out, err := Render(source)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("GFM table not rendered: %s", out)
	}
}

func TestRenderExternalLinks(t *testing.T) {
	out, err := Render("[docs](https://example.com/docs) and [home](/about)")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `target="_blank"`) {
		t.Fatalf("external link must open in a new tab: %s", out)
	}
	if strings.Contains(out, `href="/about" target`) {
		t.Fatalf("relative link must stay in-site: %s", out)
	}
}

func TestRenderFencedCodeLanguage(t *testing.T) {
	out, err := Render("```go\nfmt.Println(\"hi\")\n```")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `language-go`) {
		t.Fatalf("code language class missing: %s", out)
	}
}

func TestRenderImageFigure(t *testing.T) {
	out, err := Render("![A diagram](https://example.com/x.png)")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<figure>") || !strings.Contains(out, "<figcaption>A diagram</figcaption>") {
		t.Fatalf("image figure rewrite missing: %s", out)
	}
}

func TestRenderSanitizesScript(t *testing.T) {
	out, err := Render("hello\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script must be stripped: %s", out)
	}
}
