package harvest

import (
	"encoding/json"
	"strings"
)

// CardNumberFromScan extracts the tipper card number from a scanned QR
// payload. JSON payloads carry card_number or cardNumber; anything else is
// taken verbatim.
func CardNumberFromScan(raw string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		for _, key := range []string{"card_number", "cardNumber"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return raw
}
