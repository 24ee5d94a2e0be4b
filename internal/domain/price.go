package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price is an amount in rupees. The catalog API is inconsistent about how it
// serializes prices: some endpoints send a number (2500), others a formatted
// string ("₹2,500"). Both decode to the same numeric value.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*p = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	*p = Price(f)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// ParsePrice converts a formatted price string like "₹1,234" or "1234.50"
// into its numeric value. Currency symbols, thousands separators and
// surrounding whitespace are ignored.
func ParsePrice(s string) (Price, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("price %q has no numeric value", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price(v), nil
}
