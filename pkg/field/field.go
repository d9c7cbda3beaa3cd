// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field extracts option metadata from the struct tags of a
// record type. Every other package in this module consumes the
// Descriptor list it produces.
package field

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Settings is a marker type. Embed it in a record struct to attach
// record-wide modifiers as struct tags:
//
//	type Opts struct {
//	    field.Settings `passthrough:"true" bundling:"true"`
//	    Name string    `flag:"name" short:"n" help:"Name of the player"`
//	}
type Settings struct{}

// Config holds the record-wide modifiers read from an embedded
// Settings marker.
type Config struct {
	PassThrough   bool
	StopOnFirst   bool
	Bundling      bool
	CaseSensitive bool
	Callback      string
}

// Descriptor is the normalized metadata for one record field.
type Descriptor struct {
	Name          string // Go field name
	Key           string // long option/config key, never empty
	Short         string // optional single-character alias
	Help          string
	Default       string // raw default from the tag, "" if none
	Callback      string // named callback target, "" if none
	Kind          Kind
	Index         int // field index within the record struct
	Required      bool
	CaseSensitive bool
	NoSave        bool // excluded from serialization
	Bound         bool // participates in CLI flag binding
}

// Spec renders the option in long|short form, the shape the help
// renderer splits back apart. A missing short alias yields just the
// key.
func (d Descriptor) Spec() string {
	if d.Short != "" {
		return d.Key + "|" + d.Short
	}
	return d.Key
}

var settingsType = reflect.TypeOf(Settings{})

// Extract walks the fields of a record struct type in declaration
// order and returns their descriptors plus the record-wide Config.
// Fields of types outside the supported kinds are skipped entirely.
// Fields with no flag or help tag are still keyed (reachable through
// the store) but are not bound to CLI flags.
func Extract(t reflect.Type) ([]Descriptor, Config, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, Config{}, fmt.Errorf("field: %s is not a struct", t)
	}
	var cfg Config
	var descs []Descriptor
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if err := checkTag(t, sf); err != nil {
			return nil, Config{}, err
		}
		if sf.Anonymous && sf.Type == settingsType {
			cfg = settingsConfig(sf.Tag)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		kind := kindOf(sf.Type)
		if kind == Invalid {
			continue
		}
		d, err := describe(t, sf, i, kind)
		if err != nil {
			return nil, Config{}, err
		}
		descs = append(descs, d)
	}
	return descs, cfg, nil
}

func describe(t reflect.Type, sf reflect.StructField, index int, kind Kind) (Descriptor, error) {
	d := Descriptor{
		Name:     sf.Name,
		Key:      sf.Tag.Get("flag"),
		Short:    sf.Tag.Get("short"),
		Help:     sf.Tag.Get("help"),
		Default:  sf.Tag.Get("default"),
		Callback: sf.Tag.Get("callback"),
		Kind:     kind,
		Index:    index,
	}
	_, hasFlag := sf.Tag.Lookup("flag")
	_, hasHelp := sf.Tag.Lookup("help")
	d.Bound = hasFlag || hasHelp
	if d.Key == "" {
		d.Key = strings.ToLower(sf.Name)
	}
	if d.Short != "" && utf8.RuneCountInString(d.Short) != 1 {
		return Descriptor{}, fmt.Errorf("field: %s.%s: short alias %q must be a single character", t, sf.Name, d.Short)
	}
	d.Required = boolTag(sf.Tag, "required")
	d.CaseSensitive = boolTag(sf.Tag, "casesensitive")
	d.NoSave = boolTag(sf.Tag, "nosave")
	if d.Default != "" {
		if _, err := Parse(kind, d.Default); err != nil {
			return Descriptor{}, fmt.Errorf("field: %s.%s: bad default: %w", t, sf.Name, err)
		}
	}
	return d, nil
}

func settingsConfig(tag reflect.StructTag) Config {
	return Config{
		PassThrough:   boolTag(tag, "passthrough"),
		StopOnFirst:   boolTag(tag, "stoponfirst"),
		Bundling:      boolTag(tag, "bundling"),
		CaseSensitive: boolTag(tag, "casesensitive"),
		Callback:      tag.Get("callback"),
	}
}

func boolTag(tag reflect.StructTag, name string) bool {
	v, ok := tag.Lookup(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func kindOf(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.String:
		return String
	case reflect.Int:
		return Int
	case reflect.Float64:
		return Float
	case reflect.Bool:
		return Bool
	default:
		return Invalid
	}
}

// checkTag rejects a tag that repeats a key. reflect.StructTag.Get
// silently returns the first occurrence, which hides a real mistake in
// the record declaration, so duplicates fail at extraction time.
func checkTag(t reflect.Type, sf reflect.StructField) error {
	seen := make(map[string]bool)
	tag := string(sf.Tag)
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := tag[:i]
		tag = tag[i+1:]
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		tag = tag[i+1:]
		if seen[name] {
			return fmt.Errorf("field: %s.%s: duplicate tag %q", t, sf.Name, name)
		}
		seen[name] = true
	}
	return nil
}
