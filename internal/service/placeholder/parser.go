// Package placeholder finds <token> triggers in command templates and puts
// answers back in their place.
package placeholder

import (
	"strings"
)

// Token is one trigger occurrence in a raw command string. Start and End are
// byte offsets into that string, End exclusive.
type Token struct {
	Raw     string
	Start   int
	End     int
	Label   string
	Hint    string
	Default string
}

// Choices returns the options listed in a hint like "red|green|blue".
func (t Token) Choices() []string {
	if !strings.Contains(t.Hint, "|") {
		return nil
	}

	var out []string
	for _, c := range strings.Split(t.Hint, "|") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

type Parser struct {
	open  string
	close string
}

var defaultParser = New("<", ">")

func New(open, close string) *Parser {
	return &Parser{open: open, close: close}
}

// Parse scans text with the default angle-bracket grammar.
func Parse(text string) []Token {
	return defaultParser.Parse(text)
}

// Strip removes delimiters that do not belong to any token.
func Strip(text string) string {
	return defaultParser.Strip(text)
}

// Parse returns tokens left to right. Each token spans from an opening
// delimiter to the nearest closing one after it, so "<a <b>" is a single
// token. Delimiters that cannot be paired are ignored.
func (p *Parser) Parse(text string) []Token {
	if !strings.Contains(text, p.open) {
		return nil
	}

	var tokens []Token
	for pos := 0; pos < len(text); {
		start := strings.Index(text[pos:], p.open)
		if start < 0 {
			break
		}
		start += pos

		end := strings.Index(text[start+len(p.open):], p.close)
		if end < 0 {
			break
		}
		end += start + len(p.open) + len(p.close)

		tokens = append(tokens, p.newToken(text, start, end))
		pos = end
	}
	return tokens
}

// Strip returns text without unmatched delimiters. Parsing the result yields
// the same tokens, in content, as parsing text.
func (p *Parser) Strip(text string) string {
	tokens := p.Parse(text)

	var sb strings.Builder
	last := 0
	for _, t := range tokens {
		sb.WriteString(p.strip(text[last:t.Start]))
		sb.WriteString(t.Raw)
		last = t.End
	}
	sb.WriteString(p.strip(text[last:]))
	return sb.String()
}

func (p *Parser) strip(s string) string {
	s = strings.ReplaceAll(s, p.open, "")
	return strings.ReplaceAll(s, p.close, "")
}

func (p *Parser) newToken(text string, start, end int) Token {
	raw := text[start:end]
	body := raw[len(p.open) : len(raw)-len(p.close)]

	t := Token{Raw: raw, Start: start, End: end}
	if i := strings.Index(body, "="); i >= 0 {
		t.Default = strings.TrimSpace(body[i+1:])
		body = body[:i]
	}
	if i := strings.Index(body, ":"); i >= 0 {
		t.Hint = strings.TrimSpace(body[i+1:])
		body = body[:i]
	}
	t.Label = strings.TrimSpace(body)
	return t
}

// Substitute replaces every token with its answer by offset, so repeated
// identical placeholders each get their own answer. Extra answers are ignored,
// tokens without an answer are left as-is.
func Substitute(text string, tokens []Token, answers []string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	last := 0
	for i, t := range tokens {
		if i >= len(answers) {
			break
		}
		sb.WriteString(text[last:t.Start])
		sb.WriteString(answers[i])
		last = t.End
	}
	sb.WriteString(text[last:])
	return sb.String()
}
