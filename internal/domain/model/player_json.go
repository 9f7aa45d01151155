package model

import (
	"encoding/json"
	"sort"
	"strconv"
)

// UnmarshalJSON decodes a backend player object. Any alias known to FieldOf
// is accepted; numeric fields may arrive as numbers or numeric strings and
// are coerced with the same lossy rules as file ingestion. Unknown keys are
// kept as string attributes.
func (p *PlayerRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rec PlayerRecord
	seen := make(map[Field]bool, len(raw))
	for _, key := range keys {
		v := raw[key]
		field := FieldOf(key)
		if field != FieldNone && seen[field] {
			// A second alias for a field already set stays a passthrough.
			field = FieldNone
		}
		switch field {
		case FieldSalary:
			rec.Salary = salaryFromJSON(v)
		case FieldPoints:
			rec.Points = pointsFromJSON(v)
		default:
			text, ok := textFromJSON(v)
			if !ok {
				continue
			}
			rec.Set(field, key, text)
		}
		if field != FieldNone {
			seen[field] = true
		}
	}
	*p = rec
	return nil
}

// MarshalJSON encodes the record with canonical keys followed by its attributes.
// Attributes never shadow a canonical key.
func (p PlayerRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attributes)+6)
	for k, v := range p.Attributes {
		out[k] = v
	}
	out[KeyName] = p.Name
	out[KeyTeam] = p.Team
	out[KeyPosition] = p.Position.Eligible
	out[KeyPrimaryPosition] = p.Position.Primary
	out[KeySalary] = p.Salary
	out[KeyPoints] = p.Points
	return json.Marshal(out)
}

func salaryFromJSON(v any) int {
	switch t := v.(type) {
	case float64:
		return salaryOf(t)
	case string:
		return ParseSalary(t)
	default:
		return 0
	}
}

func pointsFromJSON(v any) float64 {
	switch t := v.(type) {
	case float64:
		return pointsOf(t)
	case string:
		return ParsePoints(t)
	default:
		return 0
	}
}

func textFromJSON(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
