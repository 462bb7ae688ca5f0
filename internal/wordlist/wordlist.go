// Package wordlist provides the built-in word lists, imports user lists
// from text files and resolves list names against both.
package wordlist

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrEmptyList is returned when a list has no usable entries.
var ErrEmptyList = errors.New("word list is empty")

// LoadWords reads one entry per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one entry per line. Blank lines and lines starting with
// '#' are skipped; inner whitespace is collapsed to single spaces.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmptyList
	}
	return words, nil
}
