package tui

import "github.com/atotto/clipboard"

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// SystemClipboard writes to the OS clipboard. It satisfies engine.Clipboard.
type SystemClipboard struct{}

// WriteText copies s to the system clipboard.
func (SystemClipboard) WriteText(s string) error {
	return clipboardWriteAll(s)
}

// ClipboardAvailable reports whether a clipboard backend was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
