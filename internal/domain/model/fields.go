package model

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Field identifies a recognised player column.
type Field int

// Recognised columns. FieldNone marks a passthrough attribute.
const (
	FieldNone Field = iota
	FieldName
	FieldTeam
	FieldPosition
	FieldPrimaryPosition
	FieldSalary
	FieldPoints
)

// Canonical keys used when a record is written back out as JSON.
const (
	KeyName            = "Name"
	KeyTeam            = "Team"
	KeyPosition        = "position"
	KeyPrimaryPosition = "position_primary"
	KeySalary          = "Salary"
	KeyPoints          = "Predicted_DK_Points"
)

// maxSalary bounds salaries to values a float64 represents exactly.
const maxSalary = 1 << 53

// fieldAliases maps folded header names onto fields. Both the upload
// format, the export format and the backend's players payload are covered
// so that each can be read back by the same code.
var fieldAliases = map[string]Field{
	"name":              FieldName,
	"player":            FieldName,
	"team":              FieldTeam,
	"position":          FieldPosition,
	"pos":               FieldPosition,
	"positionprimary":   FieldPrimaryPosition,
	"salary":            FieldSalary,
	"predicteddkpoints": FieldPoints,
	"projectedpoints":   FieldPoints,
	"proj":              FieldPoints,
}

// CleanHeader strips whitespace, a byte order mark and stray quotes from a header cell.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Trim(h, " \t\r\n\"'")
}

// FieldOf resolves a header to a recognised field. Matching ignores case
// and any non-alphanumeric characters.
func FieldOf(header string) Field {
	return fieldAliases[fold(CleanHeader(header))]
}

func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ParseSalary coerces text to a salary. Anything that does not parse as a
// finite, non-negative number becomes 0; fractions are rounded.
func ParseSalary(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return salaryOf(f)
}

// ParsePoints coerces text to projected points. Anything that does not
// parse as a finite number becomes 0.
func ParsePoints(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return pointsOf(f)
}

func salaryOf(f float64) int {
	if math.IsNaN(f) || f < 0 || f >= maxSalary {
		return 0
	}
	return int(math.Round(f))
}

func pointsOf(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Set assigns a raw text value to the record according to field.
// Passthrough values are stored under key.
func (p *PlayerRecord) Set(field Field, key, value string) {
	switch field {
	case FieldName:
		p.Name = strings.TrimSpace(value)
	case FieldTeam:
		p.Team = strings.TrimSpace(value)
	case FieldPosition:
		p.Position.Eligible = strings.TrimSpace(value)
	case FieldPrimaryPosition:
		p.Position.Primary = strings.TrimSpace(value)
	case FieldSalary:
		p.Salary = ParseSalary(value)
	case FieldPoints:
		p.Points = ParsePoints(value)
	default:
		if p.Attributes == nil {
			p.Attributes = make(map[string]string)
		}
		p.Attributes[key] = value
	}
}
