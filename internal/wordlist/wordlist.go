// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// ErrEmpty is returned when a word list has no usable lines.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads one word per line from the provided file path.
// Blank lines are skipped, and so are words rejected by keep when it is non-nil.
func LoadWords(path string, keep FilterFunc) ([]string, error) {
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

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if keep != nil && !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
