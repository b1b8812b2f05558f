package tripsheet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/xeno347/supervisor-final/internal/types"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return v
}

func TestNormalizeHistoricalNonArrayInputs(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{},
		"not json",
		json.RawMessage(`null`),
		json.RawMessage(`{"trip_no": 1}`),
		json.RawMessage(`[1,2`),
		[]byte{},
		42.0,
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.Empty(t, NormalizeHistorical(in), "%#v", in)
		})
	}
}

func TestNormalizeHistoricalScalarElements(t *testing.T) {
	got := NormalizeHistorical(decode(t, `[1, 2, 3]`))
	want := []types.TripRow{{TripNo: "1"}, {TripNo: "2"}, {TripNo: "3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeHistoricalDeeplyNested(t *testing.T) {
	raw := `[{"weighment": {"net_weight": {"value": [1, {"x": 2}]}},
	          "quality_check": [[[]]],
	          "trip_no": {"n": 1},
	          "nw": "7.25"}]`
	var got []types.TripRow
	assert.NotPanics(t, func() { got = NormalizeHistorical(json.RawMessage(raw)) })
	want := []types.TripRow{{TripNo: "1", NetWeightTon: 7.25}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeHistoricalAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want types.TripRow
	}{
		{
			name: "nested weighment and quality check",
			raw:  `{"weighment": {"net_weight": "2.5"}, "quality_check": {"moisture_percentage": 12, "foreign_material_percentage": "0.5"}}`,
			want: types.TripRow{TripNo: "1", NetWeightTon: 2.5, MoisturePercent: 12, ForeignMaterialPercent: 0.5},
		},
		{
			name: "camel case nested objects",
			raw:  `{"weighmentDetails": {"net_weight": 4}, "qualityCheck": {"moisturePercent": 9, "foreignMaterialPercent": 2}}`,
			want: types.TripRow{TripNo: "1", NetWeightTon: 4, MoisturePercent: 9, ForeignMaterialPercent: 2},
		},
		{
			name: "short flat aliases",
			raw:  `{"tripNo": "T-7", "nw": 3.1, "moist": "11", "fm": 1}`,
			want: types.TripRow{TripNo: "T-7", NetWeightTon: 3.1, MoisturePercent: 11, ForeignMaterialPercent: 1},
		},
		{
			name: "misspelled legacy weight",
			raw:  `{"trip_number": 5, "net_wight": "6.0", "moisture_percent": 8, "fm_percent": "0.25"}`,
			want: types.TripRow{TripNo: "5", NetWeightTon: 6, MoisturePercent: 8, ForeignMaterialPercent: 0.25},
		},
		{
			name: "long flat aliases",
			raw:  `{"trip": 2, "net_weight_ton": 1.5, "moisturePercentage": 14, "foreignMaterialPercentage": 3}`,
			want: types.TripRow{TripNo: "2", NetWeightTon: 1.5, MoisturePercent: 14, ForeignMaterialPercent: 3},
		},
		{
			name: "nested wins over flat",
			raw:  `{"weighment": {"net_weight": 10}, "net_weight": 99}`,
			want: types.TripRow{TripNo: "1", NetWeightTon: 10},
		},
		{
			name: "unparseable alias falls through to next",
			raw:  `{"weighment": {"net_weight": "n/a"}, "nw": "", "net_weight": "4.5"}`,
			want: types.TripRow{TripNo: "1", NetWeightTon: 4.5},
		},
		{
			name: "nothing resolvable",
			raw:  `{"net_weight": "abc", "moisture": true, "trip_no": ""}`,
			want: types.TripRow{TripNo: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHistorical(json.RawMessage("[" + tt.raw + "]"))
			if diff := cmp.Diff([]types.TripRow{tt.want}, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeHistoricalPositionalTripNumbers(t *testing.T) {
	got := NormalizeHistorical(decode(t, `[{"nw": 1}, {"trip_no": "A"}, {"nw": 2}, null]`))
	nos := make([]string, len(got))
	for i, r := range got {
		nos[i] = r.TripNo
	}
	assert.Equal(t, []string{"1", "A", "3", "4"}, nos)
}

func TestNormalizeLive(t *testing.T) {
	tests := []struct {
		name string
		data types.TipperUnloadedData
		want types.TripRow
	}{
		{
			name: "numbers",
			data: types.TipperUnloadedData{NetWeight: 3.0, MoistureLevel: 10.0, ForegineMaterial: 1.0, TripSheetLength: "2"},
			want: types.TripRow{TripNo: "2", NetWeightTon: 3, MoisturePercent: 10, ForeignMaterialPercent: 1},
		},
		{
			name: "strings",
			data: types.TipperUnloadedData{NetWeight: "4.2", MoistureLevel: "x", TripSheetLength: 3.0},
			want: types.TripRow{TripNo: "3", NetWeightTon: 4.2},
		},
		{
			name: "missing trip number",
			data: types.TipperUnloadedData{NetWeight: 1.0},
			want: types.TripRow{TripNo: "-", NetWeightTon: 1},
		},
		{
			name: "NaN trip number",
			data: types.TipperUnloadedData{TripSheetLength: "NaN"},
			want: types.TripRow{TripNo: "-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLive(tt.data))
		})
	}
}

func TestToFiniteRejectsNonFinite(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), "Inf", "NaN", "", " ", true, []any{1.0}} {
		_, ok := toFinite(v)
		assert.False(t, ok, "%#v", v)
	}
	f, ok := toFinite(" 2.75 ")
	assert.True(t, ok)
	assert.Equal(t, 2.75, f)
}
