package tripsheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// accessor reads one candidate value for a logical field from a raw trip element.
// It returns nil when the candidate is absent.
type accessor func(row map[string]any) any

// field reads a flat key.
func field(key string) accessor {
	return func(row map[string]any) any {
		return row[key]
	}
}

// nested reads key from the first present parent object.
// The first non-nil parent wins even if it lacks key.
func nested(parents []string, key string) accessor {
	return func(row map[string]any) any {
		for _, p := range parents {
			v, ok := row[p]
			if !ok || v == nil {
				continue
			}
			obj, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			return obj[key]
		}
		return nil
	}
}

var (
	weighmentKeys = []string{"weighment", "weighment_details", "weighmentDetails"}
	qualityKeys   = []string{"quality_check", "qualityCheck", "quality"}
)

// Alias tables for historical rows. Order matters: the first candidate that
// resolves to a usable value wins.
var (
	tripNoAliases = []accessor{
		field("trip_no"),
		field("tripNo"),
		field("trip"),
		field("trip_number"),
		field("tripNumber"),
	}

	netWeightAliases = []accessor{
		nested(weighmentKeys, "net_weight"),
		field("nw"),
		field("net_weight"),
		field("netWeight"),
		field("net_wight"),
		field("netWight"),
		field("net_weight_ton"),
	}

	moistureAliases = []accessor{
		nested(qualityKeys, "moisture_percentage"),
		nested(qualityKeys, "moisturePercent"),
		field("moist"),
		field("moisture"),
		field("moist_percent"),
		field("moisture_percent"),
		field("moisturePercentage"),
	}

	foreignMaterialAliases = []accessor{
		nested(qualityKeys, "foreign_material_percentage"),
		nested(qualityKeys, "foreignMaterialPercent"),
		field("fm"),
		field("foreign_material"),
		field("foreignMaterial"),
		field("fm_percent"),
		field("foreignMaterialPercentage"),
	}
)

// resolveNumber returns the first alias value that parses as a finite number.
func resolveNumber(row map[string]any, aliases []accessor) (float64, bool) {
	for _, get := range aliases {
		if f, ok := toFinite(get(row)); ok {
			return f, true
		}
	}
	return 0, false
}

// resolveTripNo returns the first alias value usable as a trip number.
func resolveTripNo(row map[string]any, aliases []accessor) (string, bool) {
	for _, get := range aliases {
		if s, ok := toTripNo(get(row)); ok {
			return s, true
		}
	}
	return "", false
}

// toFinite converts JSON numbers and numeric strings. Empty strings, booleans,
// objects, NaN and infinities are rejected.
func toFinite(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toTripNo renders a trip number from a string or finite number.
func toTripNo(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		s := strings.TrimSpace(n)
		if s == "" || s == "NaN" {
			return "", false
		}
		return s, true
	case json.Number:
		return n.String(), true
	}
	if f, ok := toFinite(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
