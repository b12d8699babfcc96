package utils

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds half-up to two decimal places. Intermediate math keeps
// full precision, rounding happens only when an amount is persisted or
// returned to a client.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// AnyToInt64 coerces numbers and numeric strings as stored documents hand
// them back. The second return reports whether the value was usable.
func AnyToInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case float32:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// AnyToFloat64 is the float counterpart of AnyToInt64.
func AnyToFloat64(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Int64Or and Float64Or are the permissive variants used where a missing or
// malformed field falls back to a default instead of failing the read.
func Int64Or(v interface{}, def int64) int64 {
	if n, ok := AnyToInt64(v); ok {
		return n
	}
	return def
}

func Float64Or(v interface{}, def float64) float64 {
	if f, ok := AnyToFloat64(v); ok {
		return f
	}
	return def
}
