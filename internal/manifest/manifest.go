// Package manifest reads and edits a project's pyproject.toml.
//
// The file is decoded with go-toml to validate it and to learn which table
// holds the version, but edits are applied to the original bytes so that
// formatting, comments and key order survive untouched.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/fasttortoise/fast/internal/errors"
)

const (
	FileName = "pyproject.toml"
	// SearchDepth is how many directories, starting with the current one,
	// FindRoot inspects.
	SearchDepth = 5

	tablePoetry     = "tool.poetry"
	tableProject    = "project"
	tableRoot       = ""
	tableMainDeps   = "tool.poetry.dependencies"
	tableDevGroup   = "tool.poetry.group.dev.dependencies"
	tableDevLegacy  = "tool.poetry.dev-dependencies"
	filePermissions = 0o644
)

var versionLine = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])([^"']*)(["'])`)

type document struct {
	Version string `toml:"version"`
	Project struct {
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Line is a single physical line of the manifest
type Line struct {
	Number int // 1-based
	Table  string
	Text   string // without the trailing newline
	offset int    // byte offset of Text in the file
}

// Manifest is a loaded pyproject.toml
type Manifest struct {
	Path  string
	data  []byte
	doc   document
	lines []Line
}

// FindRoot walks up from start looking for the manifest file and returns the
// directory that contains it.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.DirectoryAccessFailed("resolve", start, err)
	}

	for i := 0; i < SearchDepth; i++ {
		if info, statErr := os.Stat(filepath.Join(dir, FileName)); statErr == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ManifestNotFound(FileName, start, SearchDepth)
}

// Load reads and decodes the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes manifest content; path is used for messages and Save
func Parse(path string, data []byte) (*Manifest, error) {
	m := &Manifest{Path: path, data: data}
	if err := toml.Unmarshal(data, &m.doc); err != nil {
		return nil, errors.ManifestParseFailed(path, err)
	}
	m.lines = splitLines(data)
	return m, nil
}

// Bytes returns the current content, including unsaved edits
func (m *Manifest) Bytes() []byte {
	return m.data
}

// Version returns the raw version string
func (m *Manifest) Version() (string, error) {
	line, err := m.versionLine()
	if err != nil {
		return "", err
	}
	return versionLine.FindStringSubmatch(line.Text)[3], nil
}

// SetVersion replaces the version value in memory, leaving every other byte
// as it was. Call Save to persist it.
func (m *Manifest) SetVersion(value string) error {
	line, err := m.versionLine()
	if err != nil {
		return err
	}

	loc := versionLine.FindStringSubmatchIndex(line.Text)
	start, end := line.offset+loc[6], line.offset+loc[7]

	var buf bytes.Buffer
	buf.Grow(len(m.data) - (end - start) + len(value))
	buf.Write(m.data[:start])
	buf.WriteString(value)
	buf.Write(m.data[end:])

	updated, err := Parse(m.Path, buf.Bytes())
	if err != nil {
		return err
	}
	if table, _ := updated.versionTable(); updated.decodedVersion(table) != value {
		return errors.VersionEditAmbiguous(m.Path, value)
	}
	*m = *updated
	return nil
}

// Save writes the manifest next to itself and renames it into place, so a
// failed write never leaves a half-written file behind.
func (m *Manifest) Save() error {
	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(m.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.Path), "."+filepath.Base(m.Path)+".*")
	if err != nil {
		return errors.ManifestWriteFailed(m.Path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(m.data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.ManifestWriteFailed(m.Path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.ManifestWriteFailed(m.Path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return errors.ManifestWriteFailed(m.Path, err)
	}
	if err := os.Rename(tmpName, m.Path); err != nil {
		cleanup()
		return errors.ManifestWriteFailed(m.Path, err)
	}
	return nil
}

// versionTable picks the table holding the version: [tool.poetry], then
// [project], then the top level.
func (m *Manifest) versionTable() (string, bool) {
	switch {
	case m.doc.Tool.Poetry.Version != "":
		return tablePoetry, true
	case m.doc.Project.Version != "":
		return tableProject, true
	case m.doc.Version != "":
		return tableRoot, true
	}
	return "", false
}

func (m *Manifest) decodedVersion(table string) string {
	switch table {
	case tablePoetry:
		return m.doc.Tool.Poetry.Version
	case tableProject:
		return m.doc.Project.Version
	}
	return m.doc.Version
}

// versionLine finds the line that really holds the decoded version. Lines
// that only look like one, e.g. inside a multi-line string, carry a
// different value and are passed over.
func (m *Manifest) versionLine() (Line, error) {
	table, ok := m.versionTable()
	if !ok {
		return Line{}, errors.VersionFieldMissing(m.Path)
	}
	want := m.decodedVersion(table)
	for _, line := range m.lines {
		if line.Table != table {
			continue
		}
		match := versionLine.FindStringSubmatch(line.Text)
		if match != nil && match[3] == want {
			return line, nil
		}
	}
	return Line{}, errors.VersionFieldMissing(m.Path)
}

// splitLines records each line with the table it belongs to
func splitLines(data []byte) []Line {
	var lines []Line
	table := tableRoot
	offset := 0

	for i, raw := range strings.SplitAfter(string(data), "\n") {
		if raw == "" {
			continue
		}
		text := strings.TrimRight(raw, "\r\n")
		if name, ok := tableHeader(text); ok {
			table = name
		}
		lines = append(lines, Line{Number: i + 1, Table: table, Text: text, offset: offset})
		offset += len(raw)
	}

	return lines
}

// tableHeader recognises "[a.b]" and returns "a.b". Array tables keep their
// double brackets so they never match a plain table name.
func tableHeader(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	if strings.HasPrefix(trimmed, "[[") {
		end := strings.Index(trimmed, "]]")
		if end < 0 {
			return "", false
		}
		return trimmed[:end+2], true
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[end+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return "", false
	}

	parts := strings.Split(trimmed[1:end], ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return strings.Join(parts, "."), true
}
