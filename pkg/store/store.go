// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store is the generic key/value engine under a record type:
// get/set by key with typed conversion, plus bulk load from and save
// to a line-oriented "key = value" text file.
package store

import (
	"bufio"
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

// DefaultFileName is used by Save when no backing file was ever
// recorded by a LoadFile or SaveTo call.
const DefaultFileName = "app.config"

// Store wraps a pointer to a record struct and exposes its fields as
// string-keyed, typed values. A Store is not safe for concurrent use.
type Store struct {
	rec      reflect.Value
	descs    []field.Descriptor
	byKey    map[string]int
	fs       FileSystem
	path     string
	autoSave bool
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithFileSystem replaces the OS-backed file source/sink.
func WithFileSystem(fs FileSystem) Option {
	return func(s *Store) { s.fs = fs }
}

// New builds a Store over rec, which must be a non-nil pointer to a
// struct. Field values already present in rec are kept as-is.
func New(rec any, opts ...Option) (*Store, error) {
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("store: record must be a non-nil pointer to a struct, got %T", rec)
	}
	descs, _, err := field.Extract(rv.Type())
	if err != nil {
		return nil, err
	}
	s := &Store{
		rec:   rv.Elem(),
		descs: descs,
		byKey: make(map[string]int, len(descs)),
		fs:    osFS{},
	}
	for i, d := range descs {
		s.byKey[d.Key] = i
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Keys returns every declared key in field declaration order.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.descs))
	for i, d := range s.descs {
		keys[i] = d.Key
	}
	return keys
}

// Descriptors returns the extracted field descriptors.
func (s *Store) Descriptors() []field.Descriptor {
	return s.descs
}

// Contains reports whether key names a declared field. It tests the
// declaration only, never the current value.
func (s *Store) Contains(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Get returns the current value of key. A zero (never set) stored
// value yields def instead; a non-zero stored value always wins over
// def. An unknown key yields def.
func (s *Store) Get(key string, def any) any {
	i, ok := s.byKey[key]
	if !ok {
		return def
	}
	d := s.descs[i]
	cur := s.value(d)
	if def != nil && field.IsZero(d.Kind, cur) {
		return def
	}
	return cur
}

// Set converts value to the field's static type and stores it. An
// unknown key, or a value that does not convert, is a no-op.
func (s *Store) Set(key string, value any) {
	i, ok := s.byKey[key]
	if !ok {
		return
	}
	s.assign(s.descs[i], stringify(value))
}

// LoadString parses text as newline-delimited "key = value" pairs.
// The first '=' splits each line, both sides are trimmed, and lines
// with no '=' or an empty key are skipped. Unknown keys are ignored.
// It returns false only for empty input.
func (s *Store) LoadString(text string) bool {
	if text == "" {
		return false
	}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		i, ok := s.byKey[key]
		if !ok {
			continue
		}
		s.assign(s.descs[i], value)
	}
	return true
}

// LoadFile reads path whole and feeds it to LoadString. It returns
// false when path does not exist. On success path becomes the backing
// file for later Save calls, and autoSave arms a save on Close.
func (s *Store) LoadFile(path string, autoSave bool) bool {
	if !s.fs.Exists(path) {
		return false
	}
	b, err := s.fs.ReadFile(path)
	if err != nil {
		return false
	}
	s.path = path
	s.autoSave = autoSave
	return s.LoadString(string(b))
}

// Save writes every field to the backing file recorded by the last
// LoadFile or SaveTo, falling back to DefaultFileName when none was
// ever recorded.
func (s *Store) Save() error {
	path := s.path
	if path == "" {
		path = DefaultFileName
	}
	return s.SaveTo(path)
}

// SaveTo serializes every field not marked nosave as "key = value"
// lines and truncating-writes them to path. path becomes the backing
// file.
func (s *Store) SaveTo(path string) error {
	if err := s.fs.WriteFile(path, s.serialize()); err != nil {
		return fmt.Errorf("store: save %s: %w", path, err)
	}
	s.path = path
	return nil
}

// CreateDefaultFile writes the record's current values to path if the
// file does not exist yet, or unconditionally when force is set. It
// does not touch the backing file association.
func (s *Store) CreateDefaultFile(path string, force bool) error {
	if !force && s.fs.Exists(path) {
		return nil
	}
	if err := s.fs.WriteFile(path, s.serialize()); err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	return nil
}

// Close flushes the record to its backing file when the store was
// loaded with auto-save. Callers that load with auto-save should
// defer Close for the lifetime of the record.
func (s *Store) Close() error {
	if !s.autoSave {
		return nil
	}
	s.autoSave = false
	return s.Save()
}

func (s *Store) serialize() []byte {
	var buf bytes.Buffer
	for _, d := range s.descs {
		if d.NoSave {
			continue
		}
		fmt.Fprintf(&buf, "%s = %s\n", d.Key, field.Format(d.Kind, s.value(d)))
	}
	return buf.Bytes()
}

// value reads the field behind d as its plain kind value.
func (s *Store) value(d field.Descriptor) any {
	fv := s.rec.Field(d.Index)
	switch d.Kind {
	case field.String:
		return fv.String()
	case field.Int:
		return int(fv.Int())
	case field.Float:
		return fv.Float()
	case field.Bool:
		return fv.Bool()
	default:
		return nil
	}
}

func (s *Store) assign(d field.Descriptor, raw string) error {
	return field.Assign(s.rec.Field(d.Index), d.Kind, raw)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
