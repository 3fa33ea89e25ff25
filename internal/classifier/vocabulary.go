package classifier

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyVocabulary is returned when a vocabulary has no labels.
var ErrEmptyVocabulary = errors.New("vocabulary is empty")

// Vocabulary is the ordered list of class labels shared by every backend.
type Vocabulary []string

// NewVocabulary validates labels and returns them as a Vocabulary.
func NewVocabulary(labels ...string) (Vocabulary, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyVocabulary
	}

	seen := make(map[string]struct{}, len(labels))
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("label %d is empty", i)
		}
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("duplicate label %q", l)
		}
		seen[l] = struct{}{}
	}

	return Vocabulary(append([]string(nil), labels...)), nil
}

// ReadVocabulary parses one label per line. Blank lines and lines starting
// with # are skipped.
func ReadVocabulary(r io.Reader) (Vocabulary, error) {
	var labels []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return NewVocabulary(labels...)
}

// LoadVocabulary reads a labels file.
func LoadVocabulary(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	return ReadVocabulary(f)
}

// Len returns the number of labels.
func (v Vocabulary) Len() int { return len(v) }
