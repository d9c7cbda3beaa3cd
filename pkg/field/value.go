// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind is the closed set of value types a record field may have.
type Kind int

const (
	Invalid Kind = iota
	String
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// ConvError reports a raw string that could not be converted to a
// field's kind.
type ConvError struct {
	Value string
	Kind  Kind
	Err   error
}

func (e *ConvError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Kind, e.Err)
}

func (e *ConvError) Unwrap() error { return e.Err }

// Parse converts a raw token to the Go value for k.
func Parse(k Kind, s string) (any, error) {
	switch k {
	case String:
		return s, nil
	case Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &ConvError{Value: s, Kind: k, Err: err}
		}
		return n, nil
	case Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ConvError{Value: s, Kind: k, Err: err}
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, &ConvError{Value: s, Kind: k, Err: err}
		}
		return b, nil
	default:
		return nil, &ConvError{Value: s, Kind: k, Err: fmt.Errorf("unsupported kind")}
	}
}

// Format renders a field value for serialization. NaN floats render as
// 0.0 so a saved file always parses back.
func Format(k Kind, v any) string {
	switch k {
	case Float:
		f, _ := v.(float64)
		if math.IsNaN(f) {
			return "0.0"
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case Bool:
		b, _ := v.(bool)
		return strconv.FormatBool(b)
	case Int:
		n, _ := v.(int)
		return strconv.Itoa(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Zero returns the zero value for k.
func Zero(k Kind) any {
	switch k {
	case String:
		return ""
	case Int:
		return 0
	case Float:
		return float64(0)
	case Bool:
		return false
	default:
		return nil
	}
}

// IsZero reports whether v is the zero value of its kind. A NaN float
// counts as zero: it is the "never set" state of a float field.
func IsZero(k Kind, v any) bool {
	switch k {
	case Float:
		f, _ := v.(float64)
		return f == 0 || math.IsNaN(f)
	default:
		return v == Zero(k)
	}
}

// Assign parses raw and stores it into the addressable struct field fv.
func Assign(fv reflect.Value, k Kind, raw string) error {
	v, err := Parse(k, raw)
	if err != nil {
		return err
	}
	fv.Set(reflect.ValueOf(v).Convert(fv.Type()))
	return nil
}
