// Package profile builds per-entity statistical summaries from provider
// game logs and team aggregates: a (mean, sd) pair per stat category
// over a bounded recent-history window.
package profile

// Moments is a (mean, standard deviation) summary for one stat category
type Moments struct {
	Avg float64
	SD  float64
}

// PlayerProfile summarizes a player's recent per-game output. Built
// once per name and cached; callers must treat it as read-only.
type PlayerProfile struct {
	ID       string
	Name     string
	Position string
	TeamID   string
	Rolling  map[StatCategory]Moments
}

// Stat returns the rolling moments for a category, falling back to the
// category's league-average pair when the profile lacks it.
func (p *PlayerProfile) Stat(cat StatCategory) Moments {
	if m, ok := p.Rolling[cat]; ok {
		return m
	}
	return playerFallbacks[cat]
}

// TeamProfile summarizes what a team gives up per game by category
type TeamProfile struct {
	ID      string
	Name    string
	Allowed map[StatCategory]Moments
}

// Stat returns the allowed moments for a category, falling back to the
// category's default pair.
func (t *TeamProfile) Stat(cat StatCategory) Moments {
	if m, ok := t.Allowed[cat]; ok {
		return m
	}
	return teamAllowedSpecs[cat].fallback
}
