// Package history persists the interactive REPL's line history to a plain
// file (spec §6: "History is read from ./.history at startup and written
// back on normal exit"). The retrieved example pack has no readline/liner
// equivalent (see DESIGN.md), so this loads and saves the history with plain
// bufio and os file I/O, mirroring the shape of the original's
// using_history()/read_history()/write_history() calls without a C
// readline binding.
package history

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// History is an in-memory line history with a backing file path.
type History struct {
	path  string
	lines []string
}

// Load reads path's lines into a new History. A missing file is not an
// error: it yields an empty History pointed at path.
func Load(path string) (*History, error) {
	h := &History{path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, errors.Wrapf(err, "history: opening %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.lines = append(h.lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "history: reading %s", path)
	}
	return h, nil
}

// Add appends a line to the in-memory history.
func (h *History) Add(line string) {
	h.lines = append(h.lines, line)
}

// Lines returns the recorded history, oldest first.
func (h *History) Lines() []string {
	return h.lines
}

// Save writes the full history back to its backing file, overwriting it.
func (h *History) Save() error {
	f, err := os.Create(h.path)
	if err != nil {
		return errors.Wrapf(err, "history: creating %s", h.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range h.lines {
		if _, err := w.WriteString(line); err != nil {
			return errors.Wrapf(err, "history: writing %s", h.path)
		}
		if _, err := w.WriteString("\n"); err != nil {
			return errors.Wrapf(err, "history: writing %s", h.path)
		}
	}
	return w.Flush()
}
