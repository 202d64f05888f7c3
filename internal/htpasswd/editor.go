package htpasswd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hnrobert/pypiauth/internal/fileutil"
)

var ErrInvalidUsername = errors.New("invalid htpasswd username")

type Entry struct {
	Name string
	Hash string
}

type rawLine struct {
	raw   string
	entry *Entry
}

// Editor holds an htpasswd file as lines, so comments and lines it cannot
// parse survive a rewrite untouched.
type Editor struct {
	lines []rawLine
}

func NewEditor() *Editor {
	return &Editor{}
}

// Edit loads path for modification. A missing file is an error; callers
// that want to create one use NewEditor.
func Edit(path string) (*Editor, error) {
	b, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(b))
}

func Parse(r io.Reader) (*Editor, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	ed := &Editor{}
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			ed.lines = append(ed.lines, rawLine{raw: line})
			continue
		}
		name, hash, ok := strings.Cut(trim, ":")
		if !ok || name == "" {
			ed.lines = append(ed.lines, rawLine{raw: line})
			continue
		}
		ed.lines = append(ed.lines, rawLine{entry: &Entry{Name: name, Hash: hash}})
	}
	return ed, nil
}

func (e *Editor) Find(name string) *Entry {
	for _, ln := range e.lines {
		if ln.entry != nil && ln.entry.Name == name {
			return ln.entry
		}
	}
	return nil
}

func (e *Editor) Users() []string {
	var out []string
	for _, ln := range e.lines {
		if ln.entry != nil {
			out = append(out, ln.entry.Name)
		}
	}
	return out
}

// SetPassword hashes password with scheme and stores it for name, adding
// the user if needed. It reports whether the user already existed.
func (e *Editor) SetPassword(name, password string, scheme Scheme) (bool, error) {
	if err := ValidateUsername(name); err != nil {
		return false, err
	}
	hash, err := Hash(password, scheme)
	if err != nil {
		return false, err
	}
	return e.SetHash(name, hash)
}

func (e *Editor) SetHash(name, hash string) (bool, error) {
	if err := ValidateUsername(name); err != nil {
		return false, err
	}
	if strings.ContainsAny(hash, "\r\n") {
		return false, fmt.Errorf("hash for %s contains a newline", name)
	}
	if ent := e.Find(name); ent != nil {
		ent.Hash = hash
		return true, nil
	}
	e.lines = append(e.lines, rawLine{entry: &Entry{Name: name, Hash: hash}})
	return false, nil
}

func (e *Editor) Delete(name string) bool {
	var nl []rawLine
	changed := false
	for _, ln := range e.lines {
		if ln.entry != nil && ln.entry.Name == name {
			changed = true
			continue
		}
		nl = append(nl, ln)
	}
	e.lines = nl
	return changed
}

func (e *Editor) Bytes() []byte {
	var buf strings.Builder
	for _, ln := range e.lines {
		if ln.entry != nil {
			buf.WriteString(ln.entry.Name)
			buf.WriteByte(':')
			buf.WriteString(ln.entry.Hash)
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString(ln.raw)
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}

// Save atomically replaces path, keeping its permissions if it exists.
func (e *Editor) Save(path string) error {
	return fileutil.WriteFileAtomic(path, e.Bytes(), fileutil.FilePerm(path, 0640))
}

func ValidateUsername(name string) error {
	if name == "" || strings.ContainsAny(name, ":\r\n") || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	var lines []string
	for s.Scan() {
		lines = append(lines, strings.TrimSuffix(s.Text(), "\r"))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Create writes an empty password file if none exists yet.
func Create(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return fileutil.EnsureFile(path, 0640)
}
