package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a price as received on the wire: either a JSON number or a
// numeric string such as "19.99". The raw text is kept so validation can
// report malformed values instead of failing the whole request body.
type Amount struct {
	raw string
	set bool
}

// NewAmount returns an Amount holding v.
func NewAmount(v float64) Amount {
	return Amount{raw: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

// ParseAmount returns an Amount holding the given text as-is.
func ParseAmount(s string) Amount {
	return Amount{raw: strings.TrimSpace(s), set: true}
}

// IsSet reports whether a non-null value was supplied.
func (a Amount) IsSet() bool {
	return a.set
}

// Raw returns the supplied text with surrounding quotes and whitespace removed.
func (a Amount) Raw() string {
	return a.raw
}

// Decimal parses the raw text.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(a.raw)
}

// Float64 returns the parsed value, or 0 when the text is not numeric.
func (a Amount) Float64() float64 {
	d, err := a.Decimal()
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}

	*a = Amount{raw: string(data), set: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	if d, err := a.Decimal(); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(a.raw)
}
