// Package conv renders the markdown produced by command replies for a
// particular channel.
package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()

	// Terminal output keeps every line of a multi-line message.
	textExtensions = extensions | parser.HardLineBreak
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func renderHTML(md []byte, ext parser.Extensions) []byte {
	p := parser.NewWithExtensions(ext)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders md and keeps only the tags Telegram accepts.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(renderHTML(md, extensions)))
}

// MarkdownToText renders md as plain text for a terminal. Input that cannot
// be converted is returned unchanged.
func MarkdownToText(md []byte) string {
	text, err := html2text.FromString(string(renderHTML(md, textExtensions)), html2text.Options{
		OmitLinks: false,
	})
	if err != nil {
		return string(md)
	}
	return strings.TrimSpace(text)
}
