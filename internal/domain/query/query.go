// Package query filters, sorts and paginates player pools.
//
// Every function here is pure: the source pool is never mutated and the
// same inputs always produce the same output in the same order.
package query

import (
	"sort"
	"strings"

	"github.com/okian/lineupdesk/internal/domain/model"
)

// AnyValue disables the position or team predicate.
const AnyValue = "All"

// SortKey selects an explicit ordering. SortNone keeps pool order.
type SortKey string

// Supported sort keys.
const (
	SortNone   SortKey = ""
	SortName   SortKey = "name"
	SortTeam   SortKey = "team"
	SortSalary SortKey = "salary"
	SortPoints SortKey = "points"
	SortValue  SortKey = "value"
)

// Criteria holds the player browser's predicates.
type Criteria struct {
	Search   string  `json:"search"`
	Position string  `json:"position"`
	Team     string  `json:"team"`
	Sort     SortKey `json:"sort,omitempty"`
	Desc     bool    `json:"desc,omitempty"`
}

// Normalize trims the predicates and maps empty values onto AnyValue.
func (c Criteria) Normalize() Criteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Position = strings.TrimSpace(c.Position)
	c.Team = strings.TrimSpace(c.Team)
	if c.Position == "" {
		c.Position = AnyValue
	}
	if c.Team == "" {
		c.Team = AnyValue
	}
	if !c.Sort.Valid() {
		c.Sort = SortNone
	}
	return c
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortName, SortTeam, SortSalary, SortPoints, SortValue:
		return true
	default:
		return false
	}
}

// Filter returns the players matching c. The result is a new slice; its
// order is pool order unless c requests a sort, and ties keep pool order.
func Filter(pool []model.PlayerRecord, c Criteria) []model.PlayerRecord {
	c = c.Normalize()
	search := strings.ToLower(c.Search)

	out := make([]model.PlayerRecord, 0, len(pool))
	for _, p := range pool {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if !matchesPosition(p, c.Position) {
			continue
		}
		if c.Team != AnyValue && !strings.EqualFold(p.Team, c.Team) {
			continue
		}
		out = append(out, p)
	}

	if c.Sort != SortNone {
		sortPlayers(out, c.Sort, c.Desc)
	}
	return out
}

func matchesSearch(p model.PlayerRecord, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Team), search)
}

// matchesPosition accepts the primary slot or any slot of a "/"-separated
// eligibility label.
func matchesPosition(p model.PlayerRecord, pos string) bool {
	if pos == AnyValue {
		return true
	}
	if strings.EqualFold(p.Position.Primary, pos) {
		return true
	}
	for _, slot := range strings.Split(p.Position.Eligible, "/") {
		if strings.EqualFold(strings.TrimSpace(slot), pos) {
			return true
		}
	}
	return false
}

func sortPlayers(players []model.PlayerRecord, key SortKey, desc bool) {
	less := func(a, b model.PlayerRecord) bool {
		switch key {
		case SortName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortTeam:
			return strings.ToLower(a.Team) < strings.ToLower(b.Team)
		case SortSalary:
			return a.Salary < b.Salary
		case SortPoints:
			return a.Points < b.Points
		case SortValue:
			return value(a) < value(b)
		default:
			return false
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		if desc {
			return less(players[j], players[i])
		}
		return less(players[i], players[j])
	})
}

// value is projected points per 1000 salary; zero-salary players rank last.
func value(p model.PlayerRecord) float64 {
	if p.Salary <= 0 {
		return 0
	}
	return p.Points * 1000 / float64(p.Salary)
}

// Teams lists distinct non-empty teams in first-seen order.
func Teams(pool []model.PlayerRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range pool {
		if p.Team == "" || seen[p.Team] {
			continue
		}
		seen[p.Team] = true
		out = append(out, p.Team)
	}
	return out
}

var positionsBySport = map[string][]string{
	"MLB": {"P", "C", "1B", "2B", "3B", "SS", "OF"},
	"NBA": {"PG", "SG", "SF", "PF", "C"},
	"NFL": {"QB", "RB", "WR", "TE", "K", "DEF"},
}

// Positions returns the position filter vocabulary for a sport, led by
// AnyValue. Unknown sports only offer AnyValue.
func Positions(sport string) []string {
	out := []string{AnyValue}
	return append(out, positionsBySport[strings.ToUpper(strings.TrimSpace(sport))]...)
}
