package types

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// IsBoolean reports whether t has an underlying bool type.
func IsBoolean(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Bool
}

// IsString reports whether t has an underlying string type.
func IsString(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.String
}

// IsNumeric reports whether t is an integer or floating point type.
func IsNumeric(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsOrderable reports whether values of t carry a total order usable for
// sorting and range checks.
func IsOrderable(t reflect.Type) bool {
	return IsNumeric(t) || IsString(t) || IsBoolean(t) || t == timeType
}

// IsTime reports whether t is time.Time.
func IsTime(t reflect.Type) bool {
	return t == timeType
}
