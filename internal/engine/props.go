package engine

import (
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/profile"
)

// templateKind selects which statistical template a prop kind uses
type templateKind int

const (
	// gaussianTemplate models yardage-like continuous outputs
	gaussianTemplate templateKind = iota
	// poissonTemplate models count-like outputs such as touchdowns
	poissonTemplate
)

// propSpec wires one prop kind to its template: which player rolling
// category and opponent allowed category feed it, the usage share
// applied to the opponent term, and any per-side sd floors. The
// constants are empirically calibrated; changing them changes the
// model's output.
type propSpec struct {
	template      templateKind
	playerStat    profile.StatCategory
	opponentStat  profile.StatCategory
	share         float64
	playerSDMin   float64
	opponentSDMin float64
	// scaleOpponentPoints divides the opponent moments by 10 with 0.5
	// floors, treating points allowed as a field-goal opportunity proxy
	scaleOpponentPoints bool
}

var propSpecs = map[models.PropKind]propSpec{
	models.PropRBRushYards: {
		template:     gaussianTemplate,
		playerStat:   profile.CatRushYds,
		opponentStat: profile.CatRushYds,
		share:        0.7,
	},
	models.PropRBLongestRun: {
		template:      gaussianTemplate,
		playerStat:    profile.CatLongRush,
		opponentStat:  profile.CatLongRush,
		share:         1.0,
		playerSDMin:   10.0,
		opponentSDMin: 8.0,
	},
	models.PropRBRushTDs: {
		template:     poissonTemplate,
		playerStat:   profile.CatRushTDs,
		opponentStat: profile.CatRushTD,
	},
	models.PropWRRecYards: {
		template:     gaussianTemplate,
		playerStat:   profile.CatRecYds,
		opponentStat: profile.CatPassYds,
		share:        0.22,
	},
	models.PropWRReceptions: {
		template:     gaussianTemplate,
		playerStat:   profile.CatRec,
		opponentStat: profile.CatComp,
		share:        0.22,
	},
	models.PropWRLongestCatch: {
		template:      gaussianTemplate,
		playerStat:    profile.CatLongRec,
		opponentStat:  profile.CatLongRec,
		share:         1.0,
		playerSDMin:   10.0,
		opponentSDMin: 8.0,
	},
	models.PropWRRecTDs: {
		template:     poissonTemplate,
		playerStat:   profile.CatRecTD,
		opponentStat: profile.CatPassTD,
	},
	models.PropQBPassYards: {
		template:     gaussianTemplate,
		playerStat:   profile.CatPassYds,
		opponentStat: profile.CatPassYds,
		share:        1.0,
	},
	models.PropQBPassTDs: {
		template:     poissonTemplate,
		playerStat:   profile.CatPassTD,
		opponentStat: profile.CatPassTD,
	},
	models.PropQBPassAttempts: {
		template:     gaussianTemplate,
		playerStat:   profile.CatPassAtt,
		opponentStat: profile.CatAtt,
		share:        1.0,
	},
	models.PropQBCompletions: {
		template:     gaussianTemplate,
		playerStat:   profile.CatComp,
		opponentStat: profile.CatComp,
		share:        1.0,
	},
	models.PropKFGMade: {
		template:            gaussianTemplate,
		playerStat:          profile.CatFGMade,
		opponentStat:        profile.CatPoints,
		share:               1.0,
		scaleOpponentPoints: true,
	},
	models.PropKickReturnYds: {
		template:     gaussianTemplate,
		playerStat:   profile.CatKRYds,
		opponentStat: profile.CatKRYds,
		share:        1.0,
	},
}
