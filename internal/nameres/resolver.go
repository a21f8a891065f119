// Package nameres resolves team names across data sources. Feeds spell the
// same club differently ("Man Utd", "Manchester United", "Manchester Utd FC")
// and the model keys on exact names, so everything entering the pipeline goes
// through a resolver first.
package nameres

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Resolver maps an external team name onto a canonical one.
type Resolver interface {
	// Resolve returns the canonical name for the input, or
	// models.ErrUnknownTeam when nothing matches confidently.
	Resolve(name string) (string, error)
}

// MaxEditDistance is the largest normalized edit distance still accepted as
// a fuzzy match.
const MaxEditDistance = 3

// CanonicalResolver resolves against a fixed canonical set using explicit
// aliases first and bounded edit distance second.
type CanonicalResolver struct {
	canonical []string
	aliases   map[string]string
	logger    *logrus.Logger
}

// NewCanonicalResolver creates a resolver over the canonical names. aliases
// maps known variants to canonical names and may be nil.
func NewCanonicalResolver(canonical []string, aliases map[string]string, logger *logrus.Logger) *CanonicalResolver {
	if logger == nil {
		logger = logrus.New()
	}

	normAliases := make(map[string]string, len(aliases))
	for variant, target := range aliases {
		normAliases[normalize(variant)] = target
	}

	return &CanonicalResolver{
		canonical: canonical,
		aliases:   normAliases,
		logger:    logger,
	}
}

// Resolve returns the canonical name for the input.
func (r *CanonicalResolver) Resolve(name string) (string, error) {
	norm := normalize(name)
	if norm == "" {
		return "", models.ErrUnknownTeam
	}

	// Exact canonical match
	for _, c := range r.canonical {
		if normalize(c) == norm {
			return c, nil
		}
	}

	// Known alias
	if target, ok := r.aliases[norm]; ok {
		return target, nil
	}

	// Fuzzy match within the edit distance bound; ambiguous ties are
	// rejected rather than guessed.
	best := ""
	bestDist := MaxEditDistance + 1
	tied := false
	for _, c := range r.canonical {
		dist := editDistance(norm, normalize(c))
		switch {
		case dist < bestDist:
			best = c
			bestDist = dist
			tied = false
		case dist == bestDist:
			tied = true
		}
	}

	if best == "" || bestDist > MaxEditDistance || tied {
		r.logger.WithFields(logrus.Fields{
			"name":          name,
			"best_distance": bestDist,
			"ambiguous":     tied,
		}).Warn("Team name did not resolve")
		return "", models.ErrUnknownTeam
	}

	return best, nil
}

// normalize lowercases, trims, and strips common suffixes and punctuation.
func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" fc", " afc", " cf"} {
		s = strings.TrimSuffix(s, suffix)
	}
	var b strings.Builder
	for _, r := range s {
		if r == '.' || r == ',' || r == '\'' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
