// Package results holds the lineups returned by the most recent
// successful generation and a cursor over them.
package results

import (
	"sort"

	"github.com/okian/lineupdesk/internal/domain/model"
)

// View is what the workbench renders for the selected lineup.
type View struct {
	Index   int          `json:"index"`
	Total   int          `json:"total"`
	Lineup  model.Lineup `json:"lineup"`
	Salary  int          `json:"salary"`
	Points  float64      `json:"points"`
	HasPrev bool         `json:"hasPrevious"`
	HasNext bool         `json:"hasNext"`
}

// Summary describes one lineup of the set without its players.
type Summary struct {
	Index   int     `json:"index"`
	Players int     `json:"players"`
	Salary  int     `json:"salary"`
	Points  float64 `json:"points"`
}

// Set is an ordered lineup collection with a cursor. The zero value is an
// empty set. A Set is not safe for concurrent use; callers serialize
// access per session.
type Set struct {
	lineups []model.Lineup
	cursor  int
}

// Install replaces the whole set and moves the cursor to the first lineup.
// Installing an empty batch clears the set.
func (s *Set) Install(lineups []model.Lineup) {
	s.lineups = make([]model.Lineup, len(lineups))
	for i, l := range lineups {
		s.lineups[i] = append(model.Lineup(nil), l...)
	}
	s.cursor = 0
}

// Clear drops every lineup.
func (s *Set) Clear() {
	s.lineups = nil
	s.cursor = 0
}

// Len returns the number of lineups.
func (s *Set) Len() int { return len(s.lineups) }

// Cursor returns the selected index; it is meaningless when Len is zero.
func (s *Set) Cursor() int { return s.cursor }

// Next advances the cursor. At the last lineup it does nothing.
func (s *Set) Next() bool {
	if s.cursor+1 >= len(s.lineups) {
		return false
	}
	s.cursor++
	return true
}

// Previous moves the cursor back. At the first lineup it does nothing.
func (s *Set) Previous() bool {
	if s.cursor == 0 || len(s.lineups) == 0 {
		return false
	}
	s.cursor--
	return true
}

// Select jumps to index i. Out-of-range indexes are ignored.
func (s *Set) Select(i int) bool {
	if i < 0 || i >= len(s.lineups) {
		return false
	}
	s.cursor = i
	return true
}

// Current returns the selected lineup view, or false for an empty set.
func (s *Set) Current() (View, bool) {
	if len(s.lineups) == 0 {
		return View{}, false
	}
	l := s.lineups[s.cursor]
	return View{
		Index:   s.cursor,
		Total:   len(s.lineups),
		Lineup:  append(model.Lineup(nil), l...),
		Salary:  l.Salary(),
		Points:  l.Points(),
		HasPrev: s.cursor > 0,
		HasNext: s.cursor+1 < len(s.lineups),
	}, true
}

// Lineup returns a copy of lineup i.
func (s *Set) Lineup(i int) (model.Lineup, bool) {
	if i < 0 || i >= len(s.lineups) {
		return nil, false
	}
	return append(model.Lineup(nil), s.lineups[i]...), true
}

// Summaries lists every lineup's totals ordered by method ("Points",
// "Salary" or "Value", all descending). Any other method keeps backend
// order. Indexes always refer to backend order.
func (s *Set) Summaries(method string) []Summary {
	out := make([]Summary, len(s.lineups))
	for i, l := range s.lineups {
		out[i] = Summary{Index: i, Players: len(l), Salary: l.Salary(), Points: l.Points()}
	}
	var key func(Summary) float64
	switch method {
	case "Points":
		key = func(x Summary) float64 { return x.Points }
	case "Salary":
		key = func(x Summary) float64 { return float64(x.Salary) }
	case "Value":
		key = func(x Summary) float64 {
			if x.Salary <= 0 {
				return 0
			}
			return x.Points * 1000 / float64(x.Salary)
		}
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	return out
}
