package core

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// PledgeNone is the sentinel pledge of a run with no charity designation.
	PledgeNone = "none"

	// NoActivePledge is shown when the newest run carries no pledge.
	NoActivePledge = "None"
)

type (
	// Run is one logged activity. Wealth is stored as a two-decimal string,
	// the same shape the record has always had in the serialized ledger.
	Run struct {
		Date     string  `json:"date"`
		Distance float64 `json:"distance"`
		Pledge   string  `json:"pledge"`
		Wealth   string  `json:"wealth"`
	}

	// Summary holds the figures derived from a ledger snapshot.
	Summary struct {
		TotalDistance float64
		TotalWealth   decimal.Decimal
		ActivePledge  string
		Runs          int
	}

	// Figures is the subset of a Summary shown on a leaderboard row.
	Figures struct {
		TotalDistance float64
		TotalWealth   decimal.Decimal
		Runs          int
	}
)

var (
	ErrInvalidDistance = errors.New("invalid distance")
	ErrEmptyDistance   = errors.New("empty distance")
)

// NewRun builds a run for the given calendar date. The pledge is trimmed and
// an empty pledge is treated as PledgeNone.
func NewRun(date string, distance float64, pledge string) (Run, error) {
	if err := ValidateDistance(distance); err != nil {
		return Run{}, err
	}
	pledge = strings.TrimSpace(pledge)
	if pledge == "" {
		pledge = PledgeNone
	}
	return Run{
		Date:     date,
		Distance: distance,
		Pledge:   pledge,
		Wealth:   FormatWealth(distance),
	}, nil
}

// Pledged reports whether the run counts toward pledged wealth.
func (r Run) Pledged() bool {
	return r.Pledge != PledgeNone
}

// WealthAmount parses the stored wealth. A malformed value counts as zero.
func (r Run) WealthAmount() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(r.Wealth))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ValidateDistance rejects negative, NaN and infinite distances.
func ValidateDistance(distance float64) error {
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return ErrInvalidDistance
	}
	return nil
}

// ParseDistance parses a form value in km. Both "5.5" and "5,5" are accepted.
func ParseDistance(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyDistance
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidDistance
	}
	if err := ValidateDistance(d); err != nil {
		return 0, err
	}
	return d, nil
}
