package render

import (
	"io"
	"sync"

	"github.com/roach88/promptguide/internal/engine"
)

// Writer is an engine.Renderer that writes every page to an io.Writer.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	styled bool
	pages  int
	err    error
}

// NewWriter returns a renderer writing to w. When styled is true each page
// uses the view's theme; otherwise pages are plain.
func NewWriter(w io.Writer, styled bool) *Writer {
	return &Writer{w: w, styled: styled}
}

// Render implements engine.Renderer. After the first write error further
// pages are dropped; see Err.
func (w *Writer) Render(v engine.View) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}
	style := Plain()
	if w.styled {
		style = NewStyle(v.Theme)
	}
	if _, err := io.WriteString(w.w, Page(v, style)); err != nil {
		w.err = err
		return
	}
	w.pages++
}

// Pages returns the number of pages written.
func (w *Writer) Pages() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pages
}

// Err returns the first write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
