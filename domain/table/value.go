package table

import (
	"fmt"
	"time"
)

// Value represents a single typed cell with deterministic coercion
type Value struct {
	Type    ValueType  `json:"type"`
	Str     *string    `json:"str,omitempty"`
	Num     *float64   `json:"num,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
	Missing bool       `json:"missing"`
}

// ValueType defines the storage type for cells
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumeric ValueType = "numeric"
	TypeTime    ValueType = "time"
	TypeMissing ValueType = "missing"
)

// String creates a string cell; empty strings become missing
func String(s string) Value {
	if s == "" {
		return Value{Type: TypeMissing, Missing: true}
	}
	return Value{Type: TypeString, Str: &s}
}

// Number creates a numeric cell
func Number(n float64) Value {
	return Value{Type: TypeNumeric, Num: &n}
}

// Time creates a time cell
func Timestamp(t time.Time) Value {
	return Value{Type: TypeTime, Time: &t}
}

// Null creates a missing cell
func Null() Value {
	return Value{Type: TypeMissing, Missing: true}
}

// IsMissing reports whether the cell carries no value
func (v Value) IsMissing() bool {
	return v.Missing || v.Type == TypeMissing
}

// IsNumeric reports whether the cell is a valid number
func (v Value) IsNumeric() bool {
	return v.Type == TypeNumeric && v.Num != nil
}

// IsTime reports whether the cell is a valid timestamp
func (v Value) IsTime() bool {
	return v.Type == TypeTime && v.Time != nil
}

// AsFloat64 returns the numeric value, or 0 if the cell is not numeric
func (v Value) AsFloat64() float64 {
	if v.Num != nil {
		return *v.Num
	}
	return 0.0
}

// AsTime returns the time value, or the zero time if the cell is not a timestamp
func (v Value) AsTime() time.Time {
	if v.Time != nil {
		return *v.Time
	}
	return time.Time{}
}

// AsString returns a string rendering of whatever the cell holds. Missing
// cells render as the empty string.
func (v Value) AsString() string {
	switch v.Type {
	case TypeString:
		if v.Str != nil {
			return *v.Str
		}
	case TypeNumeric:
		if v.Num != nil {
			return fmt.Sprintf("%g", *v.Num)
		}
	case TypeTime:
		if v.Time != nil {
			return v.Time.Format("2006-01-02")
		}
	}
	return ""
}
