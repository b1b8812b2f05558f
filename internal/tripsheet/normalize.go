package tripsheet

import (
	"encoding/json"
	"strconv"

	"github.com/xeno347/supervisor-final/internal/types"
)

// LiveTripNoPlaceholder is used when a live event carries no trip number.
const LiveTripNoPlaceholder = "-"

// NormalizeHistorical turns an order's embedded trip_sheet into rows.
//
// raw may be decoded JSON ([]any) or undecoded bytes (json.RawMessage, []byte,
// string). Anything that is not an array yields no rows. Every element yields
// exactly one row: unresolvable numbers become 0 and a missing trip number
// becomes the element's 1-based position.
func NormalizeHistorical(raw any) []types.TripRow {
	arr := asArray(raw)
	rows := make([]types.TripRow, 0, len(arr))
	for i, el := range arr {
		rows = append(rows, normalizeElement(el, i+1))
	}
	return rows
}

func normalizeElement(el any, position int) types.TripRow {
	row := types.TripRow{TripNo: strconv.Itoa(position)}

	obj, ok := el.(map[string]any)
	if !ok {
		return row
	}

	if tripNo, ok := resolveTripNo(obj, tripNoAliases); ok {
		row.TripNo = tripNo
	}
	row.NetWeightTon, _ = resolveNumber(obj, netWeightAliases)
	row.MoisturePercent, _ = resolveNumber(obj, moistureAliases)
	row.ForeignMaterialPercent, _ = resolveNumber(obj, foreignMaterialAliases)
	return row
}

func asArray(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case json.RawMessage:
		return decodeArray(v)
	case []byte:
		return decodeArray(v)
	case string:
		return decodeArray([]byte(v))
	default:
		return nil
	}
}

func decodeArray(b []byte) []any {
	if len(b) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil
	}
	arr, _ := decoded.([]any)
	return arr
}

// NormalizeLive builds a row from a TIPPER_UNLOADED payload.
func NormalizeLive(data types.TipperUnloadedData) types.TripRow {
	row := types.TripRow{TripNo: LiveTripNoPlaceholder}
	if tripNo, ok := toTripNo(data.TripSheetLength); ok {
		row.TripNo = tripNo
	}
	row.NetWeightTon, _ = toFinite(data.NetWeight)
	row.MoisturePercent, _ = toFinite(data.MoistureLevel)
	row.ForeignMaterialPercent, _ = toFinite(data.ForegineMaterial)
	return row
}
