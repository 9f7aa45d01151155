// Package model contains domain models passed between layers.
package model

// Position carries the primary slot and the optional eligibility label
// (e.g. "1B/OF") a player can fill.
type Position struct {
	Primary  string
	Eligible string
}

// Label returns the eligibility label when present, the primary slot otherwise.
func (p Position) Label() string {
	if p.Eligible != "" {
		return p.Eligible
	}
	return p.Primary
}

// PlayerRecord is one row of a player pool.
type PlayerRecord struct {
	Name     string   // pool-local identity, never empty after ingestion
	Team     string   // optional
	Position Position // primary slot plus eligibility label
	Salary   int      // non-negative
	Points   float64  // projected fantasy points, 0 when unknown

	// Attributes holds passthrough columns keyed by their cleaned header.
	Attributes map[string]string
}

// Attr returns a passthrough attribute and whether it was present.
func (p PlayerRecord) Attr(key string) (string, bool) {
	v, ok := p.Attributes[key]
	return v, ok
}

// Pool is an ordered player collection. A new pool replaces the previous
// one wholesale; pools are never merged.
type Pool []PlayerRecord

// Names returns player names in pool order.
func (p Pool) Names() []string {
	out := make([]string, len(p))
	for i, r := range p {
		out[i] = r.Name
	}
	return out
}

// Lineup is an ordered selection of players for one contest entry.
// Aggregates are derived on every call and never stored.
type Lineup []PlayerRecord

// Salary returns the summed salary of all members.
func (l Lineup) Salary() int {
	total := 0
	for _, p := range l {
		total += p.Salary
	}
	return total
}

// Points returns the summed projected points of all members.
func (l Lineup) Points() float64 {
	total := 0.0
	for _, p := range l {
		total += p.Points
	}
	return total
}
