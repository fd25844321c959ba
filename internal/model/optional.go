package model

import (
	"encoding/json"
	"math"
)

// OptFloat is a float that may be undefined. Undefined values marshal as
// JSON null and never carry NaN or infinities.
type OptFloat struct {
	Value float64
	Valid bool
}

func Some(f float64) OptFloat { return OptFloat{Value: f, Valid: true} }
func None() OptFloat          { return OptFloat{} }

// OptOf wraps f, treating NaN and ±Inf as undefined
func OptOf(f float64) OptFloat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return None()
	}
	return Some(f)
}

func (o OptFloat) Get() (float64, bool) { return o.Value, o.Valid }

// Or returns the value, or def when undefined
func (o OptFloat) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*o = Some(f)
	return nil
}
