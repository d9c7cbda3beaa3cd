// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flagbind parses an argument vector directly onto the tagged
// fields of a record struct: long and short flags, defaults, required
// tracking, pass-through, and help text all derive from the record's
// field tags.
package flagbind

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

// CallbackFunc receives the raw matched value of a flag that declared
// a named callback target instead of (or on top of) field assignment.
type CallbackFunc func(name, value string) error

// Options configures a single Parse call.
type Options struct {
	// Callbacks resolves the callback names declared in field tags.
	Callbacks map[string]CallbackFunc
	// Output receives help text; defaults to os.Stdout.
	Output io.Writer
	// Program is the name shown in the usage line; defaults to
	// os.Args[0].
	Program string
}

// Option mutates Options.
type Option func(*Options)

func WithCallbacks(cbs map[string]CallbackFunc) Option {
	return func(o *Options) { o.Callbacks = cbs }
}

func WithOutput(w io.Writer) Option {
	return func(o *Options) { o.Output = w }
}

func WithProgram(name string) Option {
	return func(o *Options) { o.Program = name }
}

// Result carries what was left over after binding.
type Result struct {
	// Args are the positional (non-flag) tokens, in order.
	Args []string
	// Passthrough are the unknown flag tokens kept when the record
	// enables pass-through.
	Passthrough []string
	// Seen records the long key of every flag that appeared.
	Seen map[string]bool
}

type binder struct {
	rec   reflect.Value
	descs []field.Descriptor
	cfg   field.Config
	opts  Options
	res   *Result
}

// Parse scans args (no program name expected at element 0) against
// the tagged fields of rec, which must be a non-nil pointer to a
// struct. Tag defaults are applied to zero fields first, then matched
// flags overwrite them. --help or -h renders help and returns ErrHelp.
func Parse(args []string, rec any, opts ...Option) (*Result, error) {
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("flagbind: record must be a non-nil pointer to a struct, got %T", rec)
	}
	descs, cfg, err := field.Extract(rv.Type())
	if err != nil {
		return nil, err
	}
	b := &binder{
		rec:   rv.Elem(),
		descs: descs,
		cfg:   cfg,
		res:   &Result{Seen: make(map[string]bool)},
	}
	for _, opt := range opts {
		opt(&b.opts)
	}
	if b.opts.Output == nil {
		b.opts.Output = os.Stdout
	}
	if b.opts.Program == "" && len(os.Args) > 0 {
		b.opts.Program = os.Args[0]
	}
	if err := b.applyDefaults(); err != nil {
		return nil, err
	}
	if err := b.scan(args); err != nil {
		return nil, err
	}
	for _, d := range descs {
		if d.Bound && d.Required && !b.res.Seen[d.Key] {
			return nil, &MissingFlagError{Flag: d.Key, Kind: d.Kind}
		}
	}
	return b.res, nil
}

func (b *binder) applyDefaults() error {
	for _, d := range b.descs {
		if d.Default == "" {
			continue
		}
		fv := b.rec.Field(d.Index)
		if !fv.IsZero() {
			continue
		}
		if err := field.Assign(fv, d.Kind, d.Default); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) scan(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			b.res.Args = append(b.res.Args, args[i+1:]...)
			return nil
		case strings.HasPrefix(arg, "--"):
			n, err := b.long(arg, args[i+1:])
			if err != nil {
				return err
			}
			i += n
		case strings.HasPrefix(arg, "-") && arg != "-":
			n, err := b.short(arg, args[i+1:])
			if err != nil {
				return err
			}
			i += n
		default:
			if b.cfg.StopOnFirst {
				b.res.Args = append(b.res.Args, args[i:]...)
				return nil
			}
			b.res.Args = append(b.res.Args, arg)
		}
	}
	return nil
}

// long handles one --name or --name=value token. It returns how many
// extra tokens were consumed from rest.
func (b *binder) long(arg string, rest []string) (int, error) {
	name := arg[2:]
	value, hasValue := "", false
	if idx := strings.Index(name, "="); idx >= 0 {
		name, value, hasValue = name[:idx], name[idx+1:], true
	}
	if name == "help" {
		return 0, b.help()
	}
	d, ok := b.lookupLong(name)
	if !ok {
		return b.unknown(arg)
	}
	if d.Kind == field.Bool && !hasValue {
		return 0, b.bind(d, "true")
	}
	if !hasValue {
		if len(rest) == 0 {
			return 0, fmt.Errorf("flag --%s needs a value", name)
		}
		value = rest[0]
		return 1, b.bind(d, value)
	}
	return 0, b.bind(d, value)
}

// short handles one -x, -x=value, or bundled -xyz token.
func (b *binder) short(arg string, rest []string) (int, error) {
	body := arg[1:]
	value, hasValue := "", false
	if idx := strings.Index(body, "="); idx >= 0 {
		body, value, hasValue = body[:idx], body[idx+1:], true
	}
	if body == "h" {
		return 0, b.help()
	}
	if len(body) > 1 {
		if !b.cfg.Bundling || hasValue {
			return b.unknown(arg)
		}
		// A bundle is only valid when every letter is a bool flag.
		bundle := make([]field.Descriptor, 0, len(body))
		for _, r := range body {
			d, ok := b.lookupShort(string(r))
			if !ok || d.Kind != field.Bool {
				return b.unknown(arg)
			}
			bundle = append(bundle, d)
		}
		for _, d := range bundle {
			if err := b.bind(d, "true"); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}
	d, ok := b.lookupShort(body)
	if !ok {
		return b.unknown(arg)
	}
	if d.Kind == field.Bool && !hasValue {
		return 0, b.bind(d, "true")
	}
	if !hasValue {
		if len(rest) == 0 {
			return 0, fmt.Errorf("flag -%s needs a value", body)
		}
		return 1, b.bind(d, rest[0])
	}
	return 0, b.bind(d, value)
}

func (b *binder) unknown(arg string) (int, error) {
	if b.cfg.PassThrough {
		b.res.Passthrough = append(b.res.Passthrough, arg)
		return 0, nil
	}
	return 0, &UnknownFlagError{Flag: arg}
}

// bind routes a matched raw value to its callback or field.
func (b *binder) bind(d field.Descriptor, raw string) error {
	b.res.Seen[d.Key] = true
	if d.Callback != "" {
		cb, ok := b.opts.Callbacks[d.Callback]
		if !ok {
			return fmt.Errorf("flag --%s names unregistered callback %q", d.Key, d.Callback)
		}
		return cb(d.Key, raw)
	}
	if err := field.Assign(b.rec.Field(d.Index), d.Kind, raw); err != nil {
		return fmt.Errorf("flag --%s: %w", d.Key, err)
	}
	if b.cfg.Callback != "" {
		cb, ok := b.opts.Callbacks[b.cfg.Callback]
		if !ok {
			return fmt.Errorf("record callback %q is not registered", b.cfg.Callback)
		}
		return cb(d.Key, raw)
	}
	return nil
}

func (b *binder) help() error {
	renderHelp(b.opts.Output, b.opts.Program, b.descs)
	return ErrHelp
}

func (b *binder) lookupLong(name string) (field.Descriptor, bool) {
	for _, d := range b.descs {
		if !d.Bound {
			continue
		}
		if b.cfg.CaseSensitive || d.CaseSensitive {
			if d.Key == name {
				return d, true
			}
			continue
		}
		if strings.EqualFold(d.Key, name) {
			return d, true
		}
	}
	return field.Descriptor{}, false
}

func (b *binder) lookupShort(name string) (field.Descriptor, bool) {
	for _, d := range b.descs {
		if !d.Bound || d.Short == "" {
			continue
		}
		if b.cfg.CaseSensitive || d.CaseSensitive {
			if d.Short == name {
				return d, true
			}
			continue
		}
		if strings.EqualFold(d.Short, name) {
			return d, true
		}
	}
	return field.Descriptor{}, false
}
