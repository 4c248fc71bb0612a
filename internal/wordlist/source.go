package wordlist

import (
	"fmt"

	"github.com/verte-zerg/wordsprint/internal/generator"
)

// DefaultWord is the single word served when no corpus could be loaded.
const DefaultWord = "default"

// LoadError reports that the corpus could not be loaded and the fallback is in use.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load word list %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source serves random words from an immutable, non-empty list.
type Source struct {
	words    []string
	gen      *generator.Generator
	fallback bool
}

// Options configures Load.
type Options struct {
	// Filter drops words it rejects. Nil keeps every non-empty line.
	Filter FilterFunc
	// Generator is the random source. Nil uses a time-seeded generator.
	Generator *generator.Generator
}

// Load reads the corpus at path. It always returns a usable Source: when the
// file is missing, unreadable or empty the Source holds only DefaultWord and
// a *LoadError is returned alongside it.
func Load(path string, opts Options) (*Source, error) {
	gen := opts.Generator
	if gen == nil {
		gen = generator.New()
	}
	words, err := LoadWords(path, opts.Filter)
	if err != nil {
		return &Source{words: []string{DefaultWord}, gen: gen, fallback: true}, &LoadError{Path: path, Err: err}
	}
	return &Source{words: words, gen: gen}, nil
}

// NewSource builds a Source from an in-memory list. Empty entries are dropped
// and an empty result falls back to DefaultWord.
func NewSource(words []string, gen *generator.Generator) *Source {
	if gen == nil {
		gen = generator.New()
	}
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return &Source{words: []string{DefaultWord}, gen: gen, fallback: true}
	}
	return &Source{words: kept, gen: gen}
}

// NextWord returns a uniformly random word. Repeats are allowed.
func (s *Source) NextWord() string {
	return s.gen.Pick(s.words)
}

// Len returns the corpus size.
func (s *Source) Len() int {
	return len(s.words)
}

// Words returns a copy of the corpus.
func (s *Source) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// Fallback reports whether the default corpus is in use.
func (s *Source) Fallback() bool {
	return s.fallback
}
