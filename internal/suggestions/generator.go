package suggestions

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
)

// FallbackGoal is used for any goal the catalog does not know.
const FallbackGoal = models.GoalEnergy

// Generate returns the three suggestions for goal with the age-bracket and
// auth-state phrases filled in. history is the number of plans the caller has
// already saved and is ignored for anonymous callers.
func (c *Catalog) Generate(age int, goal string, isAuthenticated bool, history int) []models.Suggestion {
	g, ok := c.goals[goal]
	if !ok {
		g = c.goals[FallbackGoal]
	}

	r := strings.NewReplacer(
		"{agePhrase}", agePhrase(g.Brackets, age),
		"{authPhrase}", c.authPhrase(isAuthenticated, history),
		"{age}", strconv.Itoa(age),
	)

	out := make([]models.Suggestion, len(g.Suggestions))
	for i, s := range g.Suggestions {
		out[i] = models.Suggestion{
			Name:        r.Replace(s.Name),
			Description: r.Replace(s.Description),
		}
	}
	return out
}

// ResolveGoal reports the goal Generate will actually use.
func (c *Catalog) ResolveGoal(goal string) string {
	if _, ok := c.goals[goal]; ok {
		return goal
	}
	return FallbackGoal
}

func agePhrase(brackets []Bracket, age int) string {
	for _, b := range brackets {
		if b.Under == 0 || age < b.Under {
			return b.Phrase
		}
	}
	return ""
}

func (c *Catalog) authPhrase(isAuthenticated bool, history int) string {
	switch {
	case !isAuthenticated:
		return c.phrases.Anonymous
	case history > 0:
		return strings.ReplaceAll(c.phrases.Returning, "{count}", strconv.Itoa(history))
	default:
		return c.phrases.Authenticated
	}
}
