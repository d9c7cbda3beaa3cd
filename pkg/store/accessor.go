// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"fmt"
	"reflect"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

// Value is the closed set of Go types a record field may have.
type Value interface {
	~string | ~int | ~float64 | ~bool
}

// Field is a typed handle on one record field, routed through the
// store's generic get/set. It replaces per-field hand-written
// accessors.
type Field[T Value] struct {
	s *Store
	d field.Descriptor
}

// Bind resolves key to a typed handle. It fails when key names no
// declared field or when T does not match the field's declared kind.
func Bind[T Value](s *Store, key string) (Field[T], error) {
	i, ok := s.byKey[key]
	if !ok {
		return Field[T]{}, fmt.Errorf("store: unknown key %q", key)
	}
	d := s.descs[i]
	var zero T
	if kindOfType(reflect.TypeOf(zero)) != d.Kind {
		return Field[T]{}, fmt.Errorf("store: key %q is %s, not %T", key, d.Kind, zero)
	}
	return Field[T]{s: s, d: d}, nil
}

// MustBind is Bind for statically known keys; it panics on a bad key.
func MustBind[T Value](s *Store, key string) Field[T] {
	f, err := Bind[T](s, key)
	if err != nil {
		panic(err)
	}
	return f
}

// Get returns the field's current value.
func (f Field[T]) Get() T {
	var zero T
	fv := f.s.rec.Field(f.d.Index)
	return fv.Convert(reflect.TypeOf(zero)).Interface().(T)
}

// GetOr returns the current value, or def when the current value is
// the zero value of the field's type. Presence is the value's
// zero-state, not an explicit flag: a field explicitly set to its zero
// value still reads as def.
func (f Field[T]) GetOr(def T) T {
	cur := f.Get()
	if field.IsZero(f.d.Kind, canon(cur)) {
		return def
	}
	return cur
}

// Set writes through the store's typed setter.
func (f Field[T]) Set(v T) {
	f.s.assign(f.d, stringify(canon(v)))
}

// Has reports whether the current value differs from the type's zero
// value.
func (f Field[T]) Has() bool {
	return !field.IsZero(f.d.Kind, canon(f.Get()))
}

// Is reports whether the current value equals candidate.
func (f Field[T]) Is(candidate T) bool {
	return f.Get() == candidate
}

func kindOfType(t reflect.Type) field.Kind {
	switch t.Kind() {
	case reflect.String:
		return field.String
	case reflect.Int:
		return field.Int
	case reflect.Float64:
		return field.Float
	case reflect.Bool:
		return field.Bool
	default:
		return field.Invalid
	}
}

// canon strips a named type down to its plain kind value.
func canon(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int:
		return int(rv.Int())
	case reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}
