// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"bytes"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// TeeWriter forwards writes to an underlying writer while retaining a copy
// that can later be sent to the clipboard.
type TeeWriter struct {
	destination io.Writer
	captured    bytes.Buffer
}

// NewTeeWriter wraps destination.
func NewTeeWriter(destination io.Writer) *TeeWriter {
	return &TeeWriter{destination: destination}
}

// Write writes to the destination and records the bytes that were written.
func (writer *TeeWriter) Write(data []byte) (int, error) {
	written, writeError := writer.destination.Write(data)
	writer.captured.Write(data[:written])
	return written, writeError
}

// CopyTo sends everything written so far to copier.
func (writer *TeeWriter) CopyTo(copier Copier) error {
	return copier.Copy(writer.captured.String())
}
