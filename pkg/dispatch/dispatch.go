// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch maps a leading argument token onto a registered Go
// function, binding the remaining tokens positionally with type
// conversion, declared defaults, and overload resolution by arity.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

// MissingArgError reports a required command parameter that had no
// token and no declared default. It is fatal to the invocation, not
// the process.
type MissingArgError struct {
	Command string
	Param   string
	Kind    field.Kind
}

func (e *MissingArgError) Error() string {
	return fmt.Sprintf("%s: missing required argument %s (%s)", e.Command, e.Param, e.Kind)
}

type param struct {
	name   string
	kind   field.Kind
	goType reflect.Type
	defVal any
	hasDef bool
}

type command struct {
	name     string
	aliases  []string
	help     string
	argDocs  []string
	params   []param
	fn       reflect.Value
	wantsCtx bool
	retErr   bool
}

func (c *command) required() int {
	n := 0
	for _, p := range c.params {
		if !p.hasDef {
			n++
		}
	}
	return n
}

// Registry holds the known commands of one program.
type Registry struct {
	program string
	cmds    []*command
	out     io.Writer
}

// Option configures a Registry.
type Option func(*Registry)

// WithOutput redirects help and error text; defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Registry) { r.out = w }
}

// New builds an empty Registry for the named program.
func New(program string, opts ...Option) *Registry {
	r := &Registry{program: program, out: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CommandOption attaches metadata to a command at registration time.
type CommandOption func(*command)

// Help sets the command's one-line description.
func Help(text string) CommandOption {
	return func(c *command) { c.help = text }
}

// Aliases declares alternate names the command also answers to.
func Aliases(names ...string) CommandOption {
	return func(c *command) { c.aliases = names }
}

// Params names the function's parameters for help output. Unnamed
// parameters show as arg1..argN.
func Params(names ...string) CommandOption {
	return func(c *command) {
		for i, name := range names {
			if i < len(c.params) {
				c.params[i].name = name
			}
		}
	}
}

// ArgDocs attaches one doc line per parameter, positionally.
func ArgDocs(docs ...string) CommandOption {
	return func(c *command) { c.argDocs = docs }
}

// Defaults declares default values for the trailing parameters,
// making them optional. Defaults(v) covers the last parameter,
// Defaults(v1, v2) the last two, and so on.
func Defaults(vals ...any) CommandOption {
	return func(c *command) {
		offset := len(c.params) - len(vals)
		if offset < 0 {
			return
		}
		for i, v := range vals {
			c.params[offset+i].defVal = v
			c.params[offset+i].hasDef = true
		}
	}
}

// Register adds fn under name. fn may take an optional leading
// context.Context, any number of string/int/float64/bool parameters,
// and may return nothing or a single error. Registering the same name
// again declares an overload; overloads are told apart by parameter
// count only, and the first registration is the base overload.
func (r *Registry) Register(name string, fn any, opts ...CommandOption) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("dispatch: %s: not a function: %T", name, fn)
	}
	ft := fv.Type()
	c := &command{name: name, fn: fv}
	start := 0
	if ft.NumIn() > 0 && ft.In(0) == reflect.TypeOf((*context.Context)(nil)).Elem() {
		c.wantsCtx = true
		start = 1
	}
	for i := start; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		kind := kindOfType(pt)
		if kind == field.Invalid {
			return fmt.Errorf("dispatch: %s: unsupported parameter type %s", name, pt)
		}
		c.params = append(c.params, param{
			name:   fmt.Sprintf("arg%d", len(c.params)+1),
			kind:   kind,
			goType: pt,
		})
	}
	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) != reflect.TypeOf((*error)(nil)).Elem() {
			return fmt.Errorf("dispatch: %s: return type must be error, got %s", name, ft.Out(0))
		}
		c.retErr = true
	default:
		return fmt.Errorf("dispatch: %s: at most one return value allowed", name)
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, p := range c.params {
		if !p.hasDef {
			continue
		}
		dv := reflect.ValueOf(p.defVal)
		if !dv.IsValid() || kindOfType(dv.Type()) != p.kind {
			return fmt.Errorf("dispatch: %s: default for %s must be %s", name, p.name, p.kind)
		}
	}
	if err := checkTrailingDefaults(c); err != nil {
		return err
	}
	r.cmds = append(r.cmds, c)
	return nil
}

func checkTrailingDefaults(c *command) error {
	seen := false
	for _, p := range c.params {
		if p.hasDef {
			seen = true
		} else if seen {
			return fmt.Errorf("dispatch: %s: required parameter %s follows an optional one", c.name, p.name)
		}
	}
	return nil
}

// Run dispatches one invocation. args carries no program name. A help
// request or an unknown command is handled by printing and returning
// nil; only argument binding and the command function itself produce
// errors.
func (r *Registry) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.printSummary()
		return nil
	}
	head := strings.TrimLeft(args[0], "-")
	if strings.EqualFold(head, "help") {
		r.runHelp(args[1:])
		return nil
	}
	overloads := r.find(args[0])
	if len(overloads) == 0 {
		fmt.Fprintln(r.out, "Command not found!")
		return nil
	}
	rest := args[1:]
	c, extra := pick(overloads, len(rest))
	if extra >= 0 {
		fmt.Fprintf(r.out, "Invalid argument: %s\n", rest[extra])
		return nil
	}
	return r.invoke(ctx, c, rest)
}

// pick selects the overload for n remaining tokens: exact parameter
// count first, then any overload whose optional parameters absorb the
// shortfall, and finally the base overload so that a precise missing
// argument error names the right parameter. A non-negative second
// return flags the index of the first token no overload can consume.
func pick(overloads []*command, n int) (*command, int) {
	for _, c := range overloads {
		if len(c.params) == n {
			return c, -1
		}
	}
	for _, c := range overloads {
		if n >= c.required() && n <= len(c.params) {
			return c, -1
		}
	}
	max := 0
	for _, c := range overloads {
		if len(c.params) > max {
			max = len(c.params)
		}
	}
	if n > max {
		return overloads[0], max
	}
	return overloads[0], -1
}

func (r *Registry) invoke(ctx context.Context, c *command, rest []string) error {
	var in []reflect.Value
	if c.wantsCtx {
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, p := range c.params {
		var v any
		switch {
		case i < len(rest):
			parsed, err := field.Parse(p.kind, rest[i])
			if err != nil {
				return fmt.Errorf("%s: argument %s: %w", c.name, p.name, err)
			}
			v = parsed
		case p.hasDef:
			v = p.defVal
		default:
			return &MissingArgError{Command: c.name, Param: p.name, Kind: p.kind}
		}
		in = append(in, reflect.ValueOf(v).Convert(p.goType))
	}
	out := c.fn.Call(in)
	if c.retErr && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// find returns every overload answering to name, base first.
func (r *Registry) find(name string) []*command {
	var matches []*command
	canonical := ""
	for _, c := range r.cmds {
		if matchName(c, name) {
			canonical = c.name
			break
		}
	}
	if canonical == "" {
		return nil
	}
	for _, c := range r.cmds {
		if strings.EqualFold(c.name, canonical) {
			matches = append(matches, c)
		}
	}
	return matches
}

func matchName(c *command, name string) bool {
	if strings.EqualFold(c.name, name) {
		return true
	}
	for _, alias := range c.aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
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
