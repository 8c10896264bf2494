package subjects

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nutricart/backend/internal/domain"
)

// Registry holds the subject records loaded at startup. Records come from
// an intake export, either a JSON array or JSONL (one record per line).
type Registry struct {
	subjects []domain.Subject
}

// record accepts both the flat subject shape and the intake export shape
// that nests the histories under subject_infos.
type record struct {
	domain.Subject
	Infos *struct {
		Dietary    *domain.DietaryInfo `json:"dietary_history"`
		Medical    *domain.MedicalInfo `json:"medical_history"`
		EnergyGoal float64             `json:"energy_goal_kcal"`
		MacroGoal  *domain.MacroGrams  `json:"macro_target_grams"`
	} `json:"subject_infos"`
}

func (r *record) subject() domain.Subject {
	s := r.Subject
	if r.Infos != nil {
		if r.Infos.Dietary != nil {
			s.Dietary = *r.Infos.Dietary
		}
		if r.Infos.Medical != nil {
			s.Medical = *r.Infos.Medical
		}
		if r.Infos.EnergyGoal > 0 {
			s.EnergyGoal = r.Infos.EnergyGoal
		}
		if r.Infos.MacroGoal != nil {
			s.MacroGoal = *r.Infos.MacroGoal
		}
	}
	return s
}

// Load reads subject records from path. An empty path yields an empty
// registry.
func Load(path string) (*Registry, error) {
	reg := &Registry{}
	if path == "" {
		return reg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading subjects %s: %w", path, err)
	}

	content := strings.TrimSpace(string(raw))
	if content == "" {
		return reg, nil
	}

	var records []record
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &records); err != nil {
			return nil, fmt.Errorf("parsing subjects %s: %w", path, err)
		}
	} else {
		for i, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var rec record
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				return nil, fmt.Errorf("parsing subjects %s line %d: %w", path, i+1, err)
			}
			records = append(records, rec)
		}
	}

	reg.subjects = make([]domain.Subject, 0, len(records))
	for _, rec := range records {
		reg.subjects = append(reg.subjects, rec.subject())
	}
	return reg, nil
}

// All returns every loaded subject in file order.
func (r *Registry) All() []domain.Subject {
	return r.subjects
}

// Count returns how many subjects are loaded.
func (r *Registry) Count() int {
	return len(r.subjects)
}

// ByIndex returns the subject at the given zero-based position.
func (r *Registry) ByIndex(i int) (*domain.Subject, error) {
	if i < 0 || i >= len(r.subjects) {
		return nil, fmt.Errorf("%w: index %d", domain.ErrSubjectNotFound, i)
	}
	return &r.subjects[i], nil
}

// Names returns the display name of every subject, substituting a
// placeholder for unnamed records.
func (r *Registry) Names() []string {
	names := make([]string, len(r.subjects))
	for i, s := range r.subjects {
		if s.Name != "" {
			names[i] = s.Name
		} else {
			names[i] = fmt.Sprintf("Subject %d", i)
		}
	}
	return names
}
