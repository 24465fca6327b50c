package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter renders command replies as markdown. Transports convert
// it for their channel.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️ **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ %s\n", message)
}

func (f *ResponseFormatter) Error(message string) string {
	return fmt.Sprintf("❌ %s\n", message)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) Usage(usage ...string) string {
	var sb strings.Builder
	sb.WriteString("**Usage**:\n")
	for _, u := range usage {
		sb.WriteString(fmt.Sprintf("`%s`\n", u))
	}
	return sb.String()
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.TrimSpace(strings.Join(sections, "\n"))
}
