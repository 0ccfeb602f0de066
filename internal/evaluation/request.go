package evaluation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
)

// BetSpec is the wire-level specification of a single wager. Fields map
// 1:1 onto the bet model; market-specific requirements are enforced by
// Validate before a Bet is constructed.
type BetSpec struct {
	Label        string   `json:"label"`
	Market       string   `json:"market" validate:"required,oneof=moneyline spread total prop"`
	Stake        float64  `json:"stake" validate:"required,gt=0"`
	AmericanOdds *int     `json:"american_odds,omitempty"`
	PayoutTotal  *float64 `json:"payout_total,omitempty" validate:"omitempty,gt=0"`

	PropKind     string   `json:"prop_kind,omitempty"`
	PropSide     string   `json:"prop_side,omitempty" validate:"omitempty,oneof=over under"`
	PropLine     *float64 `json:"prop_line,omitempty"`
	PlayerName   string   `json:"player_name,omitempty"`
	OpponentTeam string   `json:"opponent_team,omitempty"`

	Team       string   `json:"team,omitempty"`
	SpreadLine *float64 `json:"spread_line,omitempty"`
}

// ParlaySpec is a multi-leg wager sharing a single stake
type ParlaySpec struct {
	Stake float64   `json:"stake" validate:"required,gt=0"`
	Legs  []BetSpec `json:"legs" validate:"required,min=1,dive"`
}

// BatchSpec bundles independent singles and parlays for one request
type BatchSpec struct {
	Singles []BetSpec    `json:"singles"`
	Parlays []ParlaySpec `json:"parlays"`
}

// Validate enforces structural and market-specific requirements
func (s *BetSpec) Validate(v *validator.Validate) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("invalid bet spec: %w", err)
	}
	// Zero American odds carry no price and would otherwise yield an
	// infinite decimal-odds multiplier downstream
	if s.AmericanOdds != nil && *s.AmericanOdds == 0 {
		return fmt.Errorf("invalid bet spec: american_odds must be non-zero")
	}

	var missing []string
	switch models.MarketType(s.Market) {
	case models.MarketProp:
		if s.PlayerName == "" {
			missing = append(missing, "player_name")
		}
		if s.OpponentTeam == "" {
			missing = append(missing, "opponent_team")
		}
		if s.PropKind == "" {
			missing = append(missing, "prop_kind")
		}
		if s.PropSide == "" {
			missing = append(missing, "prop_side")
		}
		if s.PropLine == nil {
			missing = append(missing, "prop_line")
		}
	default:
		if s.Team == "" {
			missing = append(missing, "team")
		}
		if models.MarketType(s.Market) == models.MarketSpread && s.SpreadLine == nil && s.AmericanOdds == nil {
			missing = append(missing, "spread_line or american_odds")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s bet missing required fields: %s", s.Market, strings.Join(missing, ", "))
	}

	if s.AmericanOdds == nil && s.PayoutTotal == nil {
		return models.ErrPayoutUnresolved
	}

	return nil
}

// ToBet constructs the immutable bet record, normalizing the prop kind
// and synthesizing a label when none was supplied.
func (s *BetSpec) ToBet() *models.Bet {
	label := s.Label
	if label == "" {
		label = s.defaultLabel()
	}

	return &models.Bet{
		Label:        label,
		Market:       models.MarketType(s.Market),
		Stake:        s.Stake,
		AmericanOdds: s.AmericanOdds,
		PayoutTotal:  s.PayoutTotal,
		PropKind:     models.NormalizePropKind(s.PropKind),
		PropSide:     models.PropSide(strings.ToLower(s.PropSide)),
		PropLine:     s.PropLine,
		PlayerName:   s.PlayerName,
		OpponentTeam: s.OpponentTeam,
	}
}

func (s *BetSpec) defaultLabel() string {
	if models.MarketType(s.Market) == models.MarketProp {
		return fmt.Sprintf("%s %s %v %s vs %s",
			s.PlayerName, strings.ToUpper(s.PropSide), derefFloat(s.PropLine), s.PropKind, s.OpponentTeam)
	}
	return fmt.Sprintf("%s %s vs %s", s.Market, s.Team, s.OpponentTeam)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
