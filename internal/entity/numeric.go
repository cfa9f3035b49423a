package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric guarda campos numéricos que o front (e dados legados) mandam ora como
// número JSON, ora como texto. O valor fica como texto; a coerção acontece na leitura.
type Numeric string

// NumericFrom formata um float como Numeric.
func NumericFrom(f float64) Numeric {
	return Numeric(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float64 devolve o valor e ok=false quando o texto não é um número finito.
func (n Numeric) Float64() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n Numeric) IsZero() bool {
	return strings.TrimSpace(string(n)) == ""
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("numeric field must be a number or a string: %w", err)
	}
	*n = Numeric(num.String())
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.IsZero() {
		return []byte("null"), nil
	}
	if f, ok := n.Float64(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(string(n))
}
