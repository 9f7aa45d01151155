package constraints

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Settings is the editable draft behind the control panel. Numeric inputs
// arrive from form fields, so they accept JSON numbers or numeric strings.
// A Settings value is turned into a Config only at submission time.
type Settings struct {
	NumLineups         Number          `json:"numLineups"`
	MinUnique          Number          `json:"minUnique"`
	SalaryFloor        Number          `json:"minSalary"`
	SalaryCeiling      Number          `json:"maxSalary"`
	DisableKellySizing bool            `json:"disableKelly"`
	Stacks             map[string]bool `json:"stacks"`
	Bankroll           Number          `json:"bankroll"`
	RiskProfile        string          `json:"riskProfile"`
	EnableRisk         bool            `json:"enableRisk"`
	SortMethod         string          `json:"sortMethod"`
	Sport              string          `json:"sport"`
}

// DefaultSettings returns the control panel's initial state.
func DefaultSettings() Settings {
	stacks := make(map[string]bool, len(StackOptions))
	for _, s := range StackOptions {
		stacks[s] = s == StackNone
	}
	return Settings{
		NumLineups:    Number(strconv.Itoa(DefaultNumLineups)),
		MinUnique:     Number(strconv.Itoa(DefaultMinUnique)),
		SalaryFloor:   Number(strconv.Itoa(DefaultSalaryFloor)),
		SalaryCeiling: Number(strconv.Itoa(DefaultSalaryCeiling)),
		Stacks:        stacks,
		Bankroll:      Number(strconv.FormatFloat(DefaultBankroll, 'f', -1, 64)),
		RiskProfile:   string(RiskMedium),
		EnableRisk:    true,
		SortMethod:    DefaultSortMethod,
		Sport:         DefaultSport,
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.Stacks = make(map[string]bool, len(s.Stacks))
	for k, v := range s.Stacks {
		out.Stacks[k] = v
	}
	return out
}

// Snapshot validates the draft and freezes it into a Config. objective is
// the deployment's configured objective label.
func (s Settings) Snapshot(objective string) (Config, error) {
	numLineups, err := s.NumLineups.Int("numLineups")
	if err != nil {
		return Config{}, err
	}
	minUnique, err := s.MinUnique.Int("minUnique")
	if err != nil {
		return Config{}, err
	}
	floor, err := s.SalaryFloor.Int("minSalary")
	if err != nil {
		return Config{}, err
	}
	ceiling, err := s.SalaryCeiling.Int("maxSalary")
	if err != nil {
		return Config{}, err
	}
	bankroll, err := s.Bankroll.Float("bankroll")
	if err != nil {
		return Config{}, err
	}

	var stacks []string
	for _, opt := range StackOptions {
		if s.Stacks[opt] {
			stacks = append(stacks, opt)
		}
	}
	for k, on := range s.Stacks {
		if on && !slices.Contains(StackOptions, k) {
			stacks = append(stacks, k)
		}
	}

	opts := []Option{
		WithNumLineups(numLineups),
		WithMinUnique(minUnique),
		WithSalaryRange(floor, ceiling),
		WithKellySizingDisabled(s.DisableKellySizing),
		WithStacks(stacks...),
		WithRiskProfile(RiskProfile{
			Enabled:  s.EnableRisk,
			Bankroll: bankroll,
			Tier:     RiskTier(strings.ToLower(strings.TrimSpace(s.RiskProfile))),
		}),
	}
	if s.SortMethod != "" {
		opts = append(opts, WithSortMethod(s.SortMethod))
	}
	if objective != "" {
		opts = append(opts, WithObjective(objective))
	}
	if s.Sport != "" {
		opts = append(opts, WithSport(s.Sport))
	}
	return New(opts...)
}

// Number is numeric form input kept as text until snapshot time.
type Number string

// UnmarshalJSON accepts a JSON number or string.
func (n *Number) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = Number(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: expected number or string, got %s", ErrInvalid, b)
	}
	*n = Number(f.String())
	return nil
}

// Int parses n as a whole number; name labels the field in errors.
func (n Number) Int(name string) (int, error) {
	s := strings.TrimSpace(string(n))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("%s: %q is not a whole number", name, s)
	}
	return v, nil
}

// Float parses n as a number; name labels the field in errors.
func (n Number) Float(name string) (float64, error) {
	s := strings.TrimSpace(string(n))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("%s: %q is not a finite number", name, s)
	}
	return v, nil
}
