// Package journal records the transformations applied to a dataset in a
// plain text file, one timestamped line per entry.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Journal is an append-only log file. It is safe for concurrent use.
type Journal struct {
	mu       sync.Mutex
	filename string
	file     *os.File
	entries  []string
	now      func() time.Time
}

// Open creates dir if needed and opens <dir>/<name>.txt for appending. A
// name that already ends in .txt is used as is.
func Open(dir, name string) (*Journal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("journal name is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create journal dir")
	}
	if filepath.Ext(name) != ".txt" {
		name += ".txt"
	}
	filename := filepath.Join(dir, name)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	return &Journal{filename: filename, file: f, now: time.Now}, nil
}

// Filename returns the path of the journal file.
func (j *Journal) Filename() string {
	return j.filename
}

// Log appends msg to the journal.
func (j *Journal) Log(msg string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return errors.New("journal is closed")
	}
	msg = strings.TrimSpace(msg)
	line := fmt.Sprintf("%s %s\n", j.now().UTC().Format(time.RFC3339), msg)
	if _, err := j.file.WriteString(line); err != nil {
		return errors.Wrap(err, "write journal")
	}
	j.entries = append(j.entries, msg)
	return nil
}

// Entries returns the messages logged through this Journal.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Close flushes and closes the file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return errors.Wrap(err, "close journal")
}

// Read returns the messages stored in a journal file, without timestamps.
func Read(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, ' '); i >= 0 {
			line = line[i+1:]
		}
		out = append(out, line)
	}
	return out, errors.Wrap(sc.Err(), "scan journal")
}
