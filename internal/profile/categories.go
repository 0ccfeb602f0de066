package profile

// StatCategory identifies one tracked stat series, either a player's
// rolling series or a team's "allowed" aggregate.
type StatCategory string

const (
	CatRushYds  StatCategory = "rush_yds"
	CatRushTDs  StatCategory = "rush_tds"
	CatRecYds   StatCategory = "rec_yds"
	CatRecTD    StatCategory = "rec_td"
	CatRec      StatCategory = "rec"
	CatPassYds  StatCategory = "pass_yds"
	CatPassTD   StatCategory = "pass_td"
	CatPassAtt  StatCategory = "pass_att"
	CatComp     StatCategory = "comp"
	CatFGMade   StatCategory = "fg_made"
	CatKRYds    StatCategory = "kr_yds"
	CatLongRec  StatCategory = "long_rec"
	CatLongRush StatCategory = "long_rush"

	// Team-side only
	CatRushTD StatCategory = "rush_td"
	CatAtt    StatCategory = "att"
	CatPoints StatCategory = "points"
)

// playerKeywordChains maps each rolling category to an ordered list of
// keyword sets. A stat name matches a set when it contains every
// fragment; chains are tried in order until one yields observations,
// tolerating the provider's varying stat naming.
var playerKeywordChains = map[StatCategory][][]string{
	CatRushYds:  {{"rush", "yd"}},
	CatRushTDs:  {{"rush", "td"}},
	CatRecYds:   {{"rec", "yd"}, {"receiving", "yd"}},
	CatRecTD:    {{"rec", "td"}},
	CatRec:      {{"rec"}},
	CatPassYds:  {{"pass", "yd"}},
	CatPassTD:   {{"pass", "td"}},
	CatPassAtt:  {{"pass", "att"}},
	CatComp:     {{"comp"}},
	CatFGMade:   {{"field", "goal", "made"}, {"fg", "made"}},
	CatKRYds:    {{"kick", "return", "yd"}, {"return", "yd"}},
	CatLongRec:  {{"long", "rec"}},
	CatLongRush: {{"long", "rush"}},
}

// playerFallbacks supplies league-average (avg, sd) pairs for rolling
// categories with zero usable observations. None is degenerate.
var playerFallbacks = map[StatCategory]Moments{
	CatRushYds:  {Avg: 35.0, SD: 25.0},
	CatRushTDs:  {Avg: 0.3, SD: 0.6},
	CatRecYds:   {Avg: 40.0, SD: 25.0},
	CatRecTD:    {Avg: 0.3, SD: 0.6},
	CatRec:      {Avg: 3.0, SD: 2.0},
	CatPassYds:  {Avg: 215.0, SD: 45.0},
	CatPassTD:   {Avg: 1.3, SD: 1.0},
	CatPassAtt:  {Avg: 32.0, SD: 7.0},
	CatComp:     {Avg: 21.0, SD: 5.0},
	CatFGMade:   {Avg: 1.5, SD: 1.2},
	CatKRYds:    {Avg: 40.0, SD: 20.0},
	CatLongRec:  {Avg: 22.0, SD: 10.0},
	CatLongRush: {Avg: 14.0, SD: 8.0},
}

// teamCategorySpec wires a team "allowed" category to its keyword set
// and the default moments used when the aggregate blocks lack it.
type teamCategorySpec struct {
	keywords []string
	fallback Moments
}

var teamAllowedSpecs = map[StatCategory]teamCategorySpec{
	CatRushYds:  {keywords: []string{"rush", "yd", "allow"}, fallback: Moments{Avg: 95.0, SD: 25.0}},
	CatRushTD:   {keywords: []string{"rush", "td", "allow"}, fallback: Moments{Avg: 0.8, SD: 0.7}},
	CatPassYds:  {keywords: []string{"pass", "yd", "allow"}, fallback: Moments{Avg: 230.0, SD: 45.0}},
	CatPassTD:   {keywords: []string{"pass", "td", "allow"}, fallback: Moments{Avg: 1.5, SD: 0.9}},
	CatComp:     {keywords: []string{"comp", "allow"}, fallback: Moments{Avg: 22.0, SD: 4.0}},
	CatAtt:      {keywords: []string{"pass", "att", "allow"}, fallback: Moments{Avg: 34.0, SD: 6.0}},
	CatKRYds:    {keywords: []string{"kick", "return", "yd", "allow"}, fallback: Moments{Avg: 55.0, SD: 20.0}},
	CatPoints:   {keywords: []string{"points", "allow"}, fallback: Moments{Avg: 22.0, SD: 7.0}},
	CatLongRec:  {keywords: []string{"long", "rec", "allow"}, fallback: Moments{Avg: 26.0, SD: 8.0}},
	CatLongRush: {keywords: []string{"long", "rush", "allow"}, fallback: Moments{Avg: 18.0, SD: 6.0}},
}
