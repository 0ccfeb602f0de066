package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// MarketType represents the market a bet is placed on
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
	MarketProp      MarketType = "prop"
)

// IsValid reports whether the market type is one of the supported markets
func (m MarketType) IsValid() bool {
	switch m {
	case MarketMoneyline, MarketSpread, MarketTotal, MarketProp:
		return true
	default:
		return false
	}
}

// PropSide represents the direction of a prop wager relative to the line
type PropSide string

const (
	SideOver  PropSide = "over"
	SideUnder PropSide = "under"
)

// IsValid reports whether the side is over or under
func (s PropSide) IsValid() bool {
	return s == SideOver || s == SideUnder
}

// Probability clamp bounds for payout-derived implied probabilities.
// Keeps degenerate 0/1 priors out of the downstream logit blend.
const (
	minImpliedProbability = 0.001
	maxImpliedProbability = 0.999
)

// Bet represents a single wager specification. Bets are immutable value
// records built per evaluation request; the hit probability is derived by
// the engine, never stored here.
type Bet struct {
	Label        string
	Market       MarketType
	Stake        float64
	AmericanOdds *int
	PayoutTotal  *float64

	// Prop targeting
	PropKind     PropKind
	PropSide     PropSide
	PropLine     *float64
	PlayerName   string
	OpponentTeam string
}

// ImpliedProbability derives the market-implied win probability from the
// posted price. American odds take precedence; otherwise the stake/payout
// ratio is used, clamped away from 0 and 1.
func (b *Bet) ImpliedProbability() (float64, error) {
	if b.AmericanOdds != nil && *b.AmericanOdds != 0 {
		o := float64(*b.AmericanOdds)
		if o > 0 {
			return 100.0 / (o + 100.0), nil
		}
		return math.Abs(o) / (math.Abs(o) + 100.0), nil
	}

	payout, err := b.ResolvePayout()
	if err != nil {
		return 0, err
	}
	p := b.Stake / payout
	return math.Min(maxImpliedProbability, math.Max(minImpliedProbability, p)), nil
}

// ResolvePayout returns the total payout if the bet wins, rounded to cents.
// An explicit payout total wins over odds-derived payout. When neither is
// present the bet is misconfigured and ErrPayoutUnresolved is returned.
// Zero American odds carry no price and are treated as absent.
func (b *Bet) ResolvePayout() (float64, error) {
	if b.PayoutTotal != nil {
		return roundCents(*b.PayoutTotal), nil
	}
	if b.AmericanOdds == nil || *b.AmericanOdds == 0 {
		return 0, ErrPayoutUnresolved
	}
	return roundCents(b.Stake * b.DecimalOdds()), nil
}

// DecimalOdds returns the payout multiplier per unit stake derived from
// the American odds, or 0 when no usable odds are present.
func (b *Bet) DecimalOdds() float64 {
	if b.AmericanOdds == nil || *b.AmericanOdds == 0 {
		return 0
	}
	o := float64(*b.AmericanOdds)
	if o > 0 {
		return 1.0 + o/100.0
	}
	return 1.0 + 100.0/math.Abs(o)
}

// roundCents rounds a monetary amount to two decimal places
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
