// Package constraints canonicalizes lineup generation knobs into one
// immutable value taken at submission time.
//
// Only the lineup count and the objective label reach the optimization
// backend today; every other knob is kept so that the value a run was
// requested with can be shown back to the user.
package constraints

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Default generation settings.
const (
	DefaultNumLineups    = 100
	DefaultMinUnique     = 3
	DefaultSalaryFloor   = 45_000
	DefaultSalaryCeiling = 50_000
	DefaultBankroll      = 1000.0
	DefaultObjective     = "maximize_points"
	DefaultSortMethod    = "Points"
	DefaultSport         = "MLB"

	// MaxNumLineups bounds a single batch request.
	MaxNumLineups = 10_000
)

// StackNone is the stack label that disables stacking.
const StackNone = "No Stacks"

// StackOptions lists the stack patterns the workbench offers.
var StackOptions = []string{StackNone, "4|2", "5|2", "3|3", "4|2|2", "3|3|2"}

// SortMethods lists the supported result ordering preferences.
var SortMethods = []string{"Points", "Salary", "Value"}

// RiskTier is the bankroll aggressiveness tier.
type RiskTier string

// Risk tiers.
const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Valid reports whether r is a known tier.
func (r RiskTier) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// RiskProfile groups the stake-sizing inputs.
type RiskProfile struct {
	Enabled  bool
	Bankroll float64
	Tier     RiskTier
}

// Wire is the subset of a Config the optimization backend accepts.
type Wire struct {
	Objective  string
	NumLineups int
}

// Config is an immutable snapshot of generation settings. Build it with
// New or Settings.Snapshot; the zero value is not valid.
type Config struct {
	numLineups         int
	minUnique          int
	salaryFloor        int
	salaryCeiling      int
	disableKellySizing bool
	stacks             []string
	risk               RiskProfile
	sortMethod         string
	objective          string
	sport              string
}

// Option adjusts a Config under construction.
type Option func(*Config)

// WithNumLineups sets the requested lineup count.
func WithNumLineups(n int) Option { return func(c *Config) { c.numLineups = n } }

// WithMinUnique sets the minimum number of distinct players between any two lineups.
func WithMinUnique(n int) Option { return func(c *Config) { c.minUnique = n } }

// WithSalaryRange sets the inclusive salary bounds.
func WithSalaryRange(floor, ceiling int) Option {
	return func(c *Config) {
		c.salaryFloor = floor
		c.salaryCeiling = ceiling
	}
}

// WithKellySizingDisabled toggles stake sizing in the display.
func WithKellySizingDisabled(disabled bool) Option {
	return func(c *Config) { c.disableKellySizing = disabled }
}

// WithStacks sets the enabled stack patterns.
func WithStacks(stacks ...string) Option {
	return func(c *Config) { c.stacks = slices.Clone(stacks) }
}

// WithRiskProfile sets bankroll and tier.
func WithRiskProfile(r RiskProfile) Option { return func(c *Config) { c.risk = r } }

// WithSortMethod sets the display ordering preference.
func WithSortMethod(m string) Option { return func(c *Config) { c.sortMethod = m } }

// WithObjective sets the objective label sent to the backend.
func WithObjective(o string) Option { return func(c *Config) { c.objective = o } }

// WithSport sets the slate's sport.
func WithSport(s string) Option { return func(c *Config) { c.sport = s } }

// New builds a validated Config from defaults and opts.
func New(opts ...Option) (Config, error) {
	c := Config{
		numLineups:    DefaultNumLineups,
		minUnique:     DefaultMinUnique,
		salaryFloor:   DefaultSalaryFloor,
		salaryCeiling: DefaultSalaryCeiling,
		stacks:        []string{StackNone},
		risk:          RiskProfile{Enabled: true, Bankroll: DefaultBankroll, Tier: RiskMedium},
		sortMethod:    DefaultSortMethod,
		objective:     DefaultObjective,
		sport:         DefaultSport,
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.stacks = canonicalStacks(c.stacks)
	c.sport = strings.ToUpper(strings.TrimSpace(c.sport))
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch {
	case c.numLineups < 1 || c.numLineups > MaxNumLineups:
		return invalid("num_lineups must be between 1 and %d, got %d", MaxNumLineups, c.numLineups)
	case c.minUnique < 0:
		return invalid("min_unique must not be negative, got %d", c.minUnique)
	case c.salaryFloor < 0:
		return invalid("salary floor must not be negative, got %d", c.salaryFloor)
	case c.salaryCeiling < c.salaryFloor:
		return invalid("salary ceiling %d is below floor %d", c.salaryCeiling, c.salaryFloor)
	case math.IsNaN(c.risk.Bankroll) || math.IsInf(c.risk.Bankroll, 0):
		return invalid("bankroll must be finite, got %g", c.risk.Bankroll)
	case c.risk.Bankroll < 0:
		return invalid("bankroll must not be negative, got %g", c.risk.Bankroll)
	case !c.risk.Tier.Valid():
		return invalid("unknown risk profile %q", c.risk.Tier)
	case !slices.Contains(SortMethods, c.sortMethod):
		return invalid("unknown sort method %q", c.sortMethod)
	case strings.TrimSpace(c.objective) == "":
		return invalid("objective must not be empty")
	}
	for _, s := range c.stacks {
		if !slices.Contains(StackOptions, s) {
			return invalid("unknown stack pattern %q", s)
		}
	}
	return nil
}

// canonicalStacks trims, de-duplicates and orders stacks by StackOptions.
// "No Stacks" is exclusive: it is dropped when any real pattern is
// selected and used when nothing is.
func canonicalStacks(in []string) []string {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	if len(set) > 1 {
		delete(set, StackNone)
	}
	if len(set) == 0 {
		return []string{StackNone}
	}
	out := make([]string, 0, len(set))
	for _, s := range StackOptions {
		if set[s] {
			out = append(out, s)
			delete(set, s)
		}
	}
	// Unknown labels are kept so validation can name them.
	rest := make([]string, 0, len(set))
	for s := range set {
		rest = append(rest, s)
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NumLineups returns the requested lineup count.
func (c Config) NumLineups() int { return c.numLineups }

// MinUnique returns the minimum distinct players between two lineups.
func (c Config) MinUnique() int { return c.minUnique }

// SalaryRange returns the inclusive salary bounds.
func (c Config) SalaryRange() (floor, ceiling int) { return c.salaryFloor, c.salaryCeiling }

// KellySizingDisabled reports whether stake sizing is hidden.
func (c Config) KellySizingDisabled() bool { return c.disableKellySizing }

// Stacks returns a copy of the enabled stack patterns.
func (c Config) Stacks() []string { return slices.Clone(c.stacks) }

// Risk returns the risk profile.
func (c Config) Risk() RiskProfile { return c.risk }

// SortMethod returns the display ordering preference.
func (c Config) SortMethod() string { return c.sortMethod }

// Objective returns the backend objective label.
func (c Config) Objective() string { return c.objective }

// Sport returns the upper-cased sport code.
func (c Config) Sport() string { return c.sport }

// Wire returns the fields transmitted to the optimization backend.
func (c Config) Wire() Wire {
	return Wire{Objective: c.objective, NumLineups: c.numLineups}
}
