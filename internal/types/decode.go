package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// The backend is loosely typed: the same field can arrive as a string, a
// number or null depending on how the record was written. Orders decode field
// by field so one odd value never costs the rest of the snapshot.

func (o *Order) UnmarshalJSON(b []byte) error {
	type plain Order
	aux := struct {
		*plain
		OrderID          json.RawMessage `json:"order_id"`
		TipperCardNumber json.RawMessage `json:"tipper_card_number"`
	}{plain: (*plain)(o)}
	if err := tolerant(json.Unmarshal(b, &aux)); err != nil {
		return err
	}

	o.OrderID, _ = idString(aux.OrderID)
	o.TipperCardNumber = nil
	// Only a JSON string counts as an allocated card.
	if s, ok := rawString(aux.TipperCardNumber); ok {
		o.TipperCardNumber = &s
	}
	return nil
}

func (s *SupervisorDetails) UnmarshalJSON(b []byte) error {
	type plain SupervisorDetails
	aux := struct {
		*plain
		SupervisorID json.RawMessage `json:"supervisor_id"`
	}{plain: (*plain)(s)}
	if err := tolerant(json.Unmarshal(b, &aux)); err != nil {
		return err
	}

	// A non-string remote id is treated as absent.
	s.SupervisorID, _ = rawString(aux.SupervisorID)
	return nil
}

func (f *FarmDetails) UnmarshalJSON(b []byte) error {
	type plain FarmDetails
	aux := struct {
		*plain
		Area json.RawMessage `json:"area"`
	}{plain: (*plain)(f)}
	if err := tolerant(json.Unmarshal(b, &aux)); err != nil {
		return err
	}

	f.Area = nil
	if v, ok := rawNumber(aux.Area); ok {
		f.Area = &v
	}
	return nil
}

// idString renders an identifier that may arrive as a string or a number.
// Empty strings, zero, null and any other JSON type report false.
func idString(raw json.RawMessage) (string, bool) {
	if s, ok := rawString(raw); ok {
		return s, s != ""
	}
	if v, ok := rawNumber(raw); ok && v != 0 {
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func rawNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// tolerant drops type mismatches, which encoding/json reports only after
// decoding every field it could.
func tolerant(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}
