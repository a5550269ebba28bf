package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one manifest line: a payload plus an optional output name.
type Entry struct {
	Name string
	Data string
}

// ParseManifest reads a batch manifest. Each non-empty line holds one
// payload, optionally prefixed with an output name and a tab. Lines
// starting with '#' are comments.
func ParseManifest(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		var entry Entry
		if name, data, found := strings.Cut(line, "\t"); found {
			entry.Name = strings.TrimSpace(name)
			entry.Data = data
		} else {
			entry.Data = line
		}

		if entry.Data == "" {
			return nil, fmt.Errorf("line %d: empty payload", lineNo)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return entries, nil
}

// LoadManifest reads a manifest from a file path, or from stdin when
// the path is "-".
func LoadManifest(path string) ([]Entry, error) {
	if path == "-" {
		return ParseManifest(os.Stdin)
	}

	f, err := os.Open(path) //nolint:gosec // G304: path comes from a CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseManifest(f)
}

// outputName returns the file stem for an entry, deriving one from its
// position when the manifest gives no name.
func outputName(entry Entry, index int) string {
	if entry.Name != "" {
		return sanitizeName(entry.Name)
	}
	return fmt.Sprintf("code_%04d", index+1)
}

// sanitizeName strips path separators and other unsafe characters from
// a manifest-provided output name.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
