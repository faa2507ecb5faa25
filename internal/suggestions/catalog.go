// Package suggestions turns an age and a health goal into the pre-authored
// suggestion blurbs held in a catalog.
package suggestions

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
)

// SuggestionsPerGoal is the number of blurbs every goal must carry.
const SuggestionsPerGoal = 3

//go:embed catalog.json
var defaultCatalog []byte

// Bracket applies to ages strictly below Under. The last bracket of a goal
// has Under == 0 and catches everything else.
type Bracket struct {
	Under  int    `json:"under,omitempty"`
	Phrase string `json:"phrase"`
}

type Goal struct {
	Value       string              `json:"value"`
	Label       string              `json:"label"`
	Brackets    []Bracket           `json:"brackets"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

type AuthPhrases struct {
	Anonymous     string `json:"anonymous"`
	Authenticated string `json:"authenticated"`
	Returning     string `json:"returning"`
}

type catalogFile struct {
	AuthPhrases AuthPhrases `json:"authPhrases"`
	Goals       []Goal      `json:"goals"`
}

// GoalOption is one entry of the public goal list.
type GoalOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog is immutable once loaded and safe for concurrent use.
type Catalog struct {
	phrases AuthPhrases
	goals   map[string]Goal
	options []GoalOption
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog from path, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions catalog: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid suggestions catalog: %w", err)
	}

	c := &Catalog{
		phrases: file.AuthPhrases,
		goals:   make(map[string]Goal, len(file.Goals)),
	}
	for _, g := range file.Goals {
		c.goals[g.Value] = g
	}
	// options follow the canonical goal order, not the file order
	for _, value := range models.HealthGoals {
		c.options = append(c.options, GoalOption{Value: value, Label: c.goals[value].Label})
	}
	return c, nil
}

func (f *catalogFile) validate() error {
	if f.AuthPhrases.Anonymous == "" || f.AuthPhrases.Authenticated == "" || f.AuthPhrases.Returning == "" {
		return errors.New("all auth phrases are required")
	}

	seen := make(map[string]bool, len(f.Goals))
	for _, g := range f.Goals {
		if !models.IsHealthGoal(g.Value) {
			return fmt.Errorf("unknown goal %q", g.Value)
		}
		if seen[g.Value] {
			return fmt.Errorf("goal %q listed twice", g.Value)
		}
		seen[g.Value] = true

		if g.Label == "" {
			return fmt.Errorf("goal %q has no label", g.Value)
		}
		if len(g.Suggestions) != SuggestionsPerGoal {
			return fmt.Errorf("goal %q has %d suggestions, want %d", g.Value, len(g.Suggestions), SuggestionsPerGoal)
		}
		for i, s := range g.Suggestions {
			if s.Name == "" || s.Description == "" {
				return fmt.Errorf("goal %q suggestion %d is empty", g.Value, i)
			}
		}
		if err := validateBrackets(g.Brackets); err != nil {
			return fmt.Errorf("goal %q: %w", g.Value, err)
		}
	}

	for _, value := range models.HealthGoals {
		if !seen[value] {
			return fmt.Errorf("goal %q is missing", value)
		}
	}
	return nil
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return errors.New("no age brackets")
	}
	prev := 0
	for i, b := range brackets {
		if b.Phrase == "" {
			return fmt.Errorf("bracket %d has no phrase", i)
		}
		last := i == len(brackets)-1
		switch {
		case last && b.Under != 0:
			return errors.New("last bracket must be open-ended")
		case !last && b.Under <= prev:
			return fmt.Errorf("bracket %d boundary %d is not ascending", i, b.Under)
		}
		prev = b.Under
	}
	return nil
}

// Goals returns the goal list in a stable order. Callers get their own copy.
func (c *Catalog) Goals() []GoalOption {
	out := make([]GoalOption, len(c.options))
	copy(out, c.options)
	return out
}
