package ale

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// maxLineSize bounds a single line of an ALE file.
const maxLineSize = 16 * 1024 * 1024

type parseState int

const (
	stateHeading parseState = iota
	stateColumns
	stateEnvelope
	stateData
)

// Load reads and parses the ALE file at path. The document is named after
// the file's base name.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFormat(path, errors.WrapIO("open", path, err))
	}
	defer f.Close()

	doc, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	doc.Name = filepath.Base(path)
	doc.Path = path
	return doc, nil
}

// LoadAll loads every path in order, stopping at the first failure.
func LoadAll(paths ...string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		doc, err := Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadDir loads every ALE file (.ale or .ALE) directly inside dir, in
// file name order.
func LoadDir(dir string) ([]*Document, error) {
	paths, err := ListDir(dir)
	if err != nil {
		return nil, err
	}
	return LoadAll(paths...)
}

// ListDir returns the paths of the ALE files directly inside dir, in file
// name order.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsALEFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// IsALEFile reports whether name has an ALE file extension.
func IsALEFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range constants.ALEExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Parse reads an ALE document from r. The name is used as the document's
// display name and in error messages.
func Parse(r io.Reader, name string) (*Document, error) {
	doc, err := parse(r, name)
	if err != nil {
		return nil, err
	}
	if name != "" {
		doc.Name = name
	}
	return doc, nil
}

func parse(r io.Reader, path string) (*Document, error) {
	doc := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		state    = stateHeading
		keep     []int
		skipped  int
		lineNo   int
		colCount int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch state {
		case stateHeading:
			trimmed := strings.TrimSpace(line)
			switch trimmed {
			case constants.ColumnMarker:
				state = stateColumns
			case "", constants.HeadingMarker:
			default:
				key, value := splitHeading(trimmed)
				doc.Heading.Set(key, value)
			}

		case stateColumns:
			names := strings.Split(line, constants.FieldDelimiter)
			var columns []string
			for i, n := range names {
				// unnamed columns (usually a trailing tab) carry no data
				if n == "" {
					continue
				}
				keep = append(keep, i)
				columns = append(columns, n)
			}
			if len(columns) == 0 {
				return nil, errors.NewFormatError(path, lineNo, "column row has no column names")
			}
			table, err := NewTable(columns...)
			if err != nil {
				return nil, &errors.FormatError{Path: path, Line: lineNo, Message: err.Error(), Err: err}
			}
			doc.Table = table
			colCount = len(names)
			state = stateEnvelope

		case stateEnvelope:
			// the blank line and the Data marker after the column row
			skipped++
			if skipped == 2 {
				state = stateData
			}

		case stateData:
			if line == "" {
				continue
			}
			cells := strings.SplitN(line, constants.FieldDelimiter, colCount+1)
			row := make([]string, len(keep))
			for i, pos := range keep {
				if pos < len(cells) {
					row[i] = cells[pos]
				}
			}
			doc.Table.rows = append(doc.Table.rows, row)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WrapFormat(path, errors.WrapIO("read", path, err))
	}

	switch state {
	case stateHeading:
		return nil, errors.NewFormatError(path, 0, "no Column marker found")
	case stateColumns:
		return nil, errors.NewFormatError(path, lineNo, "missing column row after Column marker")
	}

	return doc, nil
}

// splitHeading splits a heading line on its first run of whitespace.
func splitHeading(line string) (key, value string) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}
