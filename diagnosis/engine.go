// Package diagnosis implements the symptom analysis engine and the
// public HTTP API over the disease knowledge base.
package diagnosis

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/internal"
)

// Domain errors surfaced by the engine.
var (
	// ErrNoSymptoms is returned when no recognized symptom was selected.
	ErrNoSymptoms = errors.New("select at least one symptom")

	// ErrNotReady is returned while the knowledge base is empty.
	ErrNotReady = errors.New("diagnosis system temporarily unavailable")
)

// topResults is how many candidate diseases an analysis returns.
const topResults = 5

// Result is one candidate disease of an analysis, ordered by
// descending probability.
type Result struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
	Percentage  string  `json:"percentage"`
	Description string  `json:"description"`
	Treatment   string  `json:"treatment"`
}

// Engine scores selected symptoms against the disease knowledge base.
// It keeps an in-memory snapshot of the symptom catalogue and disease
// records, refreshed via Reload after the store changes.
type Engine struct {
	diseases *internal.DAO[apiv1.Disease]
	symptoms *internal.DAO[apiv1.Symptom]

	mu       sync.RWMutex
	catalog  []string       // symptom names ordered by ID
	index    map[string]int // symptom name -> vector position
	snapshot []apiv1.Disease
	ready    bool
	notReady string
}

// NewEngine creates an engine over the given store and loads the first
// snapshot. An empty store is not an error; the engine just reports
// not ready.
func NewEngine(db *gorm.DB) (*Engine, error) {
	e := &Engine{
		diseases: internal.NewDAO[apiv1.Disease](db),
		symptoms: internal.NewDAO[apiv1.Symptom](db),
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload refreshes the in-memory snapshot from the store.
func (e *Engine) Reload() error {
	symptoms, err := e.symptoms.ListAll()
	if err != nil {
		return fmt.Errorf("failed to load symptom catalogue: %w", err)
	}
	diseases, err := e.diseases.ListAll()
	if err != nil {
		return fmt.Errorf("failed to load diseases: %w", err)
	}

	catalog := make([]string, 0, len(symptoms))
	index := make(map[string]int, len(symptoms))
	for _, s := range symptoms {
		index[s.Name] = len(catalog)
		catalog = append(catalog, s.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = catalog
	e.index = index
	e.snapshot = diseases
	e.ready = len(catalog) > 0 && len(diseases) > 0
	if e.ready {
		e.notReady = ""
	} else {
		e.notReady = ErrNotReady.Error()
	}
	return nil
}

// Ready reports whether the engine can serve analyses.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// StatusMessage returns the not-ready explanation, empty when ready.
func (e *Engine) StatusMessage() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.notReady
}

// Symptoms returns the symptom catalogue in vector order.
func (e *Engine) Symptoms() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// DiseaseNames returns the names of all known diseases.
func (e *Engine) DiseaseNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.snapshot))
	for _, d := range e.snapshot {
		names = append(names, d.Name)
	}
	return names
}

// Counts returns the catalogue and disease counts.
func (e *Engine) Counts() (symptoms, diseases int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.catalog), len(e.snapshot)
}

// Analyze scores the selected symptoms against every known disease and
// returns the top candidates with normalized probabilities. Symptom
// names not present in the catalogue are ignored.
func (e *Engine) Analyze(selected []string) ([]Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ready {
		return nil, ErrNotReady
	}

	// Binary input vector over the catalogue; duplicates collapse.
	input := make([]bool, len(e.catalog))
	recognized := 0
	for _, name := range selected {
		if pos, ok := e.index[name]; ok && !input[pos] {
			input[pos] = true
			recognized++
		}
	}
	if recognized == 0 {
		return nil, ErrNoSymptoms
	}

	scores := make([]float64, len(e.snapshot))
	total := 0.0
	for i, disease := range e.snapshot {
		scores[i] = e.score(&disease, input, recognized)
		total += scores[i]
	}

	order := make([]int, len(e.snapshot))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return e.snapshot[order[a]].Name < e.snapshot[order[b]].Name
	})

	n := topResults
	if n > len(order) {
		n = len(order)
	}
	results := make([]Result, 0, n)
	for _, idx := range order[:n] {
		disease := e.snapshot[idx]
		probability := 0.0
		if total > 0 {
			probability = scores[idx] / total
		}
		results = append(results, Result{
			Disease:     disease.Name,
			Probability: probability,
			Percentage:  fmt.Sprintf("%.2f%%", probability*100),
			Description: disease.Description,
			Treatment:   disease.Treatment,
		})
	}
	return results, nil
}

// score rates one disease against the input vector: the harmonic mean
// of symptom coverage (matched over the disease's symptoms) and
// selection precision (matched over selected), zero when nothing
// matches.
func (e *Engine) score(disease *apiv1.Disease, input []bool, recognized int) float64 {
	if len(disease.Symptoms) == 0 {
		return 0
	}

	matched := 0
	for _, name := range disease.Symptoms {
		if pos, ok := e.index[name]; ok && input[pos] {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(disease.Symptoms))
	precision := float64(matched) / float64(recognized)
	return 2 * coverage * precision / (coverage + precision)
}
