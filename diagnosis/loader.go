package diagnosis

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/internal"
)

// Knowledge file validation errors.
var (
	ErrEmptyKnowledge = errors.New("knowledge file contains no diseases")
)

// KnowledgeEntry is one disease record of a YAML knowledge file.
// Missing fields receive the same defaults the store applies.
type KnowledgeEntry struct {
	Description string   `yaml:"description"`
	Treatment   string   `yaml:"treatment"`
	Symptoms    []string `yaml:"symptoms"`
	Severity    string   `yaml:"severity"`
	Specialist  string   `yaml:"specialist"`
	Category    string   `yaml:"category"`
}

// KnowledgeBase maps disease names to their entries.
type KnowledgeBase map[string]KnowledgeEntry

// LoadKnowledgeFile parses a YAML knowledge file.
func LoadKnowledgeFile(path string) (KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}
	if len(kb) == 0 {
		return nil, ErrEmptyKnowledge
	}
	return kb, nil
}

// Diseases converts the knowledge base to disease records sorted by
// name, applying defaults for missing fields.
func (kb KnowledgeBase) Diseases() []apiv1.Disease {
	names := make([]string, 0, len(kb))
	for name := range kb {
		names = append(names, name)
	}
	sort.Strings(names)

	diseases := make([]apiv1.Disease, 0, len(names))
	for _, name := range names {
		entry := kb[name]
		disease := apiv1.Disease{
			Name:        name,
			Description: entry.Description,
			Treatment:   entry.Treatment,
			Symptoms:    entry.Symptoms,
			Severity:    entry.Severity,
			Specialist:  entry.Specialist,
			Category:    entry.Category,
		}
		if disease.Description == "" {
			disease.Description = "No description available"
		}
		if disease.Treatment == "" {
			disease.Treatment = "No treatment specified"
		}
		if len(disease.Symptoms) == 0 {
			disease.Symptoms = []string{}
		}
		if disease.Severity == "" {
			disease.Severity = apiv1.SeverityUnknown
		}
		if disease.Specialist == "" {
			disease.Specialist = "General practitioner"
		}
		if disease.Category == "" {
			disease.Category = "Unclassified"
		}
		diseases = append(diseases, disease)
	}
	return diseases
}

// SymptomCatalogue returns the sorted union of all disease symptoms.
// Its order becomes the engine's vector order.
func (kb KnowledgeBase) SymptomCatalogue() []string {
	seen := make(map[string]struct{})
	for _, entry := range kb {
		for _, symptom := range entry.Symptoms {
			if symptom != "" {
				seen[symptom] = struct{}{}
			}
		}
	}

	catalogue := make([]string, 0, len(seen))
	for symptom := range seen {
		catalogue = append(catalogue, symptom)
	}
	sort.Strings(catalogue)
	return catalogue
}

// LoadReport summarizes a knowledge base import.
type LoadReport struct {
	DeletedDiseases int64
	LoadedDiseases  int
	LoadedSymptoms  int
}

// Apply replaces the stored diseases and the symptom catalogue with
// the knowledge base contents.
func (kb KnowledgeBase) Apply(db *gorm.DB) (LoadReport, error) {
	var report LoadReport

	diseases := kb.Diseases()
	deleted, err := internal.NewDAO[apiv1.Disease](db).ReplaceAll(diseases)
	if err != nil {
		return report, fmt.Errorf("failed to load diseases: %w", err)
	}
	report.DeletedDiseases = deleted
	report.LoadedDiseases = len(diseases)

	catalogue := kb.SymptomCatalogue()
	symptoms := make([]apiv1.Symptom, 0, len(catalogue))
	for _, name := range catalogue {
		symptoms = append(symptoms, apiv1.Symptom{Name: name})
	}
	if _, err := internal.NewDAO[apiv1.Symptom](db).ReplaceAll(symptoms); err != nil {
		return report, fmt.Errorf("failed to rebuild symptom catalogue: %w", err)
	}
	report.LoadedSymptoms = len(symptoms)

	return report, nil
}
