package pricing

import (
	"fmt"
	"strings"
)

// Paise is an amount of money in integer minor units (1/100 rupee). All order
// arithmetic happens in Paise; decimal rupees exist only at the JSON boundary.
type Paise int64

// Rupees returns the amount as a display value. Do not feed the result back
// into monetary arithmetic.
func (p Paise) Rupees() float64 { return float64(p) / 100 }

func (p Paise) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain two-decimal number, e.g. 136.50.
func (p Paise) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON parses a decimal rupee amount without going through float64,
// rounding any digits past the second decimal half-up.
func (p *Paise) UnmarshalJSON(data []byte) error {
	v, err := ParseRupees(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseRupees converts a decimal string such as "120", "120.5" or "136.50"
// into Paise. A third fractional digit rounds half-up.
func ParseRupees(s string) (Paise, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	var v int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		v = v*10 + int64(c-'0')
	}
	v *= 100
	for i, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		d := int64(c - '0')
		switch i {
		case 0:
			v += d * 10
		case 1:
			v += d
		case 2:
			if d >= 5 {
				v++
			}
		}
	}
	if neg {
		v = -v
	}
	return Paise(v), nil
}
