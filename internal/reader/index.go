package reader

import (
	"bufio"
	"bytes"
	"strings"
	"unicode"
)

// Parse an index file mapping logical module names to file names.
//
// Each line is split on its first run of whitespace: the first
// token is the key, and the trimmed remainder is the file name.
// Lines without a file name are ignored.
func parseIndex(data []byte) map[string]string {
	index := make(map[string]string)

	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		sep := strings.IndexFunc(line, unicode.IsSpace)
		if sep < 0 {
			continue
		}

		key, value := line[:sep], strings.TrimSpace(line[sep:])
		if value == "" {
			continue
		}

		index[key] = value
	}

	return index
}
