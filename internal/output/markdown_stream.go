package output

import (
	"fmt"
	"html"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tyemirov/dirtree/internal/commands"
)

const (
	markdownOpenTag          = "<details>"
	markdownCloseTag         = "</details>"
	markdownSummaryFormat    = "<summary>%s</summary>"
	markdownIndentation      = "    "
	markdownNonBreakingSpace = "&nbsp;"
)

type markdownRenderer struct {
	writer io.Writer
}

// NewMarkdownRenderer writes nested collapsible <details> blocks. Every opening tag
// is matched by exactly one closing tag.
func NewMarkdownRenderer(writer io.Writer) commands.Visitor {
	return &markdownRenderer{writer: writer}
}

func (renderer *markdownRenderer) Handle(event commands.TreeEvent) error {
	indentation := strings.Repeat(markdownIndentation, event.Depth)
	var writeErr error
	switch event.Kind {
	case commands.TreeEventRoot:
		_, writeErr = fmt.Fprintln(renderer.writer, markdownOpenTag+summary(html.EscapeString(displayName(event.Entry))))
	case commands.TreeEventEntry:
		line := indentation + markdownOpenTag + summary(translatePrefix(event.Prefix)+connectorFor(event.IsLast)+html.EscapeString(displayName(event.Entry)))
		if !event.Entry.IsDirectory {
			line += markdownCloseTag
		}
		_, writeErr = fmt.Fprintln(renderer.writer, line)
	case commands.TreeEventLeaveDirectory:
		_, writeErr = fmt.Fprintln(renderer.writer, indentation+markdownCloseTag)
	case commands.TreeEventDone:
		_, writeErr = fmt.Fprintln(renderer.writer, markdownCloseTag)
	}
	return writeErr
}

func summary(content string) string {
	return fmt.Sprintf(markdownSummaryFormat, content)
}

// translatePrefix replaces every prefix column with a non-breaking space so the
// alignment survives Markdown whitespace collapsing.
func translatePrefix(prefix string) string {
	return strings.Repeat(markdownNonBreakingSpace, utf8.RuneCountInString(prefix))
}
