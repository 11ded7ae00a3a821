package output

import (
	"fmt"
	"io"

	"github.com/tyemirov/dirtree/internal/commands"
)

type plainTextRenderer struct {
	writer io.Writer
}

// NewPlainTextRenderer writes one box-drawing line per entry, preceded by a "<root>/" header.
func NewPlainTextRenderer(writer io.Writer) commands.Visitor {
	return &plainTextRenderer{writer: writer}
}

func (renderer *plainTextRenderer) Handle(event commands.TreeEvent) error {
	var writeErr error
	switch event.Kind {
	case commands.TreeEventRoot:
		_, writeErr = fmt.Fprintln(renderer.writer, displayName(event.Entry))
	case commands.TreeEventEntry:
		_, writeErr = fmt.Fprintln(renderer.writer, event.Prefix+connectorFor(event.IsLast)+displayName(event.Entry))
	}
	return writeErr
}
