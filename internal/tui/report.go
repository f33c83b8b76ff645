package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	// ANSI color codes
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// Reporter prints line-oriented status messages for a backup run
type Reporter struct {
	writer io.Writer
	color  bool
	mu     sync.Mutex
}

// NewReporter creates a reporter writing to w. Output is colored only when
// w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		writer: w,
		color:  IsTerminal(w),
	}
}

// IsTerminal checks if w is a terminal (TTY)
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Added reports that path was written into the archive at output
func (r *Reporter) Added(path, output string) {
	r.println(fmt.Sprintf("%s added to %s", path, output), colorGreen)
}

// Missing reports that path was skipped because it does not exist
func (r *Reporter) Missing(path string) {
	r.println(fmt.Sprintf("%s does not exist", path), colorYellow)
}

// Finish prints the closing message, coloring its first checkmark
func (r *Reporter) Finish(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.color {
		message = strings.Replace(message, "✓", colorGreen+"✓"+colorReset, 1)
	}
	fmt.Fprintf(r.writer, "\n%s\n", message)
}

func (r *Reporter) println(line, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.color {
		line = color + line + colorReset
	}
	fmt.Fprintln(r.writer, line)
}
