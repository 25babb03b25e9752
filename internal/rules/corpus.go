package rules

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clauselens/clauselens/internal/domain"
)

// CorpusSpec is the on-disk representation of the reference corpus.
type CorpusSpec struct {
	Statements []string `json:"statements"`
}

// LoadCorpusFile reads the reference-corpus JSON file. An unparsable
// or empty corpus is a configuration error.
func LoadCorpusFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference corpus: %w", err)
	}

	var spec CorpusSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse reference corpus: %w", err)
	}

	if len(spec.Statements) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	return spec.Statements, nil
}
