// Package store holds the wizard records for the lifetime of the process.
// The set is read from a bundled JSON file once at startup and is read-only
// afterwards; a failed load leaves an empty store and the server keeps
// running (wizard routes then answer 404).
package store

import (
	"encoding/json"
	"os"
	"sort"

	"orderof86-server/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Store struct {
	wizards map[int]models.Wizard
}

// Load reads the wizard data source at path. Any failure to read or parse
// is logged and produces an empty store; records that fail validation or
// duplicate an id are skipped with a warning.
func Load(path string, log *zap.Logger) *Store {
	s := &Store{wizards: make(map[int]models.Wizard)}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("wizard data not loaded, serving empty store",
			zap.String("path", path), zap.Error(err))
		return s
	}

	var records []models.Wizard
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("wizard data unparsable, serving empty store",
			zap.String("path", path), zap.Error(err))
		return s
	}

	validate := validator.New()
	for _, w := range records {
		if err := validate.Struct(w); err != nil {
			log.Warn("skipping invalid wizard record",
				zap.Int("id", w.Id), zap.Error(err))
			continue
		}
		if _, dup := s.wizards[w.Id]; dup {
			log.Warn("skipping duplicate wizard id", zap.Int("id", w.Id))
			continue
		}
		s.wizards[w.Id] = w
	}

	log.Info("wizard store loaded",
		zap.String("path", path), zap.Int("count", len(s.wizards)))
	return s
}

// Lookup returns the record for id, if present.
func (s *Store) Lookup(id int) (models.Wizard, bool) {
	w, ok := s.wizards[id]
	return w, ok
}

// All returns every record ordered by id.
func (s *Store) All() []models.Wizard {
	out := make([]models.Wizard, 0, len(s.wizards))
	for _, w := range s.wizards {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// Len reports how many records loaded.
func (s *Store) Len() int {
	return len(s.wizards)
}
