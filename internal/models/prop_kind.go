package models

import "strings"

// PropKind identifies a supported player proposition market. The set is
// closed; tags outside it fall back to the market-implied prior.
type PropKind string

const (
	PropQBPassYards    PropKind = "qb_pass_yards"
	PropQBPassTDs      PropKind = "qb_pass_tds"
	PropQBPassAttempts PropKind = "qb_pass_attempts"
	PropQBCompletions  PropKind = "qb_completions"
	PropRBRushYards    PropKind = "rb_rush_yards"
	PropRBRushTDs      PropKind = "rb_rush_tds"
	PropRBLongestRun   PropKind = "rb_longest_run"
	PropWRRecYards     PropKind = "wr_rec_yards"
	PropWRReceptions   PropKind = "wr_receptions"
	PropWRRecTDs       PropKind = "wr_rec_tds"
	PropWRLongestCatch PropKind = "wr_longest_catch"
	PropKFGMade        PropKind = "k_fg_made"
	PropKickReturnYds  PropKind = "kick_return_yards"
)

// NormalizePropKind maps free-form prop kind strings onto the closed set.
// Tight ends share receiver metrics, and quarterback rushing touchdowns
// use the running back template.
func NormalizePropKind(kind string) PropKind {
	k := strings.ToLower(strings.TrimSpace(kind))
	if strings.HasPrefix(k, "te_") {
		k = "wr_" + strings.TrimPrefix(k, "te_")
	}
	if k == "qb_rush_tds" {
		k = string(PropRBRushTDs)
	}
	return PropKind(k)
}
