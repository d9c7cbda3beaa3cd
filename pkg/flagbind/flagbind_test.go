// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagbind

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

type serverOpts struct {
	Host    string  `flag:"host" short:"H" help:"Host to bind" default:"localhost"`
	Port    int     `flag:"port" short:"p" help:"Port to listen on" required:"true"`
	Ratio   float64 `flag:"ratio" help:"Sampling ratio"`
	Verbose bool    `flag:"verbose" short:"v" help:"Verbose output"`
	Debug   bool    `flag:"debug" short:"d" help:"Debug output"`
}

func TestParseLongFlags(t *testing.T) {
	var opts serverOpts
	res, err := Parse([]string{"--host", "example.com", "--port=8080", "--ratio", "0.5", "--verbose"}, &opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Host != "example.com" {
		t.Errorf("Host = %q, want example.com", opts.Host)
	}
	if opts.Port != 8080 {
		t.Errorf("Port = %d, want 8080", opts.Port)
	}
	if opts.Ratio != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", opts.Ratio)
	}
	if !opts.Verbose {
		t.Error("Verbose = false, want true")
	}
	if !res.Seen["host"] || !res.Seen["port"] {
		t.Errorf("Seen = %v", res.Seen)
	}
}

func TestParseShortFlags(t *testing.T) {
	var opts serverOpts
	_, err := Parse([]string{"-H", "example.com", "-p=8080", "-v"}, &opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Host != "example.com" || opts.Port != 8080 || !opts.Verbose {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseDefaults(t *testing.T) {
	var opts serverOpts
	if _, err := Parse([]string{"--port", "80"}, &opts); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Host != "localhost" {
		t.Errorf("Host = %q, want default localhost", opts.Host)
	}
	// an explicit record initializer wins over the tag default
	opts = serverOpts{Host: "explicit"}
	if _, err := Parse([]string{"--port", "80"}, &opts); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Host != "explicit" {
		t.Errorf("Host = %q, want explicit", opts.Host)
	}
}

func TestParseMissingRequired(t *testing.T) {
	var opts serverOpts
	_, err := Parse([]string{"--host", "example.com"}, &opts)
	var missing *MissingFlagError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingFlagError", err)
	}
	if missing.Flag != "port" || missing.Kind != field.Int {
		t.Errorf("MissingFlagError = %+v", missing)
	}
}

func TestParseUnknownFlag(t *testing.T) {
	var opts serverOpts
	_, err := Parse([]string{"--port", "80", "--bogus"}, &opts)
	var unknown *UnknownFlagError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownFlagError", err)
	}
	if unknown.Flag != "--bogus" {
		t.Errorf("Flag = %q, want --bogus", unknown.Flag)
	}
}

func TestParseConversionFailure(t *testing.T) {
	var opts serverOpts
	_, err := Parse([]string{"--port", "eighty"}, &opts)
	var conv *field.ConvError
	if !errors.As(err, &conv) {
		t.Fatalf("error = %v, want wrapped *field.ConvError", err)
	}
}

type passOpts struct {
	field.Settings `passthrough:"true"`

	Port int `flag:"port" help:"Port"`
}

func TestPassThrough(t *testing.T) {
	var opts passOpts
	res, err := Parse([]string{"--port", "80", "--other", "x", "pos"}, &opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Port != 80 {
		t.Errorf("Port = %d, want 80", opts.Port)
	}
	if !reflect.DeepEqual(res.Passthrough, []string{"--other"}) {
		t.Errorf("Passthrough = %v", res.Passthrough)
	}
	if !reflect.DeepEqual(res.Args, []string{"x", "pos"}) {
		t.Errorf("Args = %v", res.Args)
	}
}

type stopOpts struct {
	field.Settings `stoponfirst:"true"`

	Port int `flag:"port" help:"Port"`
}

func TestStopOnFirstNonOption(t *testing.T) {
	var opts stopOpts
	res, err := Parse([]string{"run", "--port", "80"}, &opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Port != 0 {
		t.Errorf("Port = %d, want untouched 0", opts.Port)
	}
	want := []string{"run", "--port", "80"}
	if !reflect.DeepEqual(res.Args, want) {
		t.Errorf("Args = %v, want %v", res.Args, want)
	}
}

type bundleOpts struct {
	field.Settings `bundling:"true"`

	Verbose bool `flag:"verbose" short:"v" help:"Verbose"`
	Debug   bool `flag:"debug" short:"d" help:"Debug"`
}

func TestBundling(t *testing.T) {
	var opts bundleOpts
	if _, err := Parse([]string{"-vd"}, &opts); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !opts.Verbose || !opts.Debug {
		t.Errorf("opts = %+v, want both set", opts)
	}
}

type caseOpts struct {
	Name  string `flag:"name" help:"Name"`
	Exact string `flag:"Exact" help:"Exact" casesensitive:"true"`
}

func TestCaseSensitivity(t *testing.T) {
	var opts caseOpts
	if _, err := Parse([]string{"--NAME", "x"}, &opts); err != nil {
		t.Fatalf("case-insensitive match failed: %v", err)
	}
	if opts.Name != "x" {
		t.Errorf("Name = %q, want x", opts.Name)
	}
	if _, err := Parse([]string{"--exact", "y"}, &opts); err == nil {
		t.Fatal("case-sensitive flag matched wrong case")
	}
	if _, err := Parse([]string{"--Exact", "y"}, &opts); err != nil {
		t.Fatalf("exact case match failed: %v", err)
	}
}

type strictCaseOpts struct {
	field.Settings `casesensitive:"true"`

	Name string `flag:"name" help:"Name"`
}

func TestCaseSensitivityGlobal(t *testing.T) {
	var opts strictCaseOpts
	if _, err := Parse([]string{"--NAME", "x"}, &opts); err == nil {
		t.Fatal("record-wide case-sensitive flag matched wrong case")
	}
	if _, err := Parse([]string{"--name", "x"}, &opts); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Name != "x" {
		t.Errorf("Name = %q, want x", opts.Name)
	}
}

type callbackOpts struct {
	Version bool `flag:"version" help:"Show version" callback:"showVersion"`
	Port    int  `flag:"port" help:"Port"`
}

func TestCallback(t *testing.T) {
	var opts callbackOpts
	var gotName, gotValue string
	cbs := map[string]CallbackFunc{
		"showVersion": func(name, value string) error {
			gotName, gotValue = name, value
			return nil
		},
	}
	if _, err := Parse([]string{"--version", "--port", "80"}, &opts, WithCallbacks(cbs)); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if gotName != "version" || gotValue != "true" {
		t.Errorf("callback got (%q, %q)", gotName, gotValue)
	}
	if opts.Version {
		t.Error("callback flag should bypass field assignment")
	}
	if opts.Port != 80 {
		t.Errorf("Port = %d, want 80", opts.Port)
	}
}

type observedOpts struct {
	field.Settings `callback:"audit"`

	Port int `flag:"port" help:"Port"`
}

func TestRecordLevelCallback(t *testing.T) {
	var opts observedOpts
	var seen []string
	cbs := map[string]CallbackFunc{
		"audit": func(name, value string) error {
			seen = append(seen, name+"="+value)
			return nil
		},
	}
	if _, err := Parse([]string{"--port", "80"}, &opts, WithCallbacks(cbs)); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Port != 80 {
		t.Errorf("Port = %d, record-level callback must not bypass assignment", opts.Port)
	}
	if !reflect.DeepEqual(seen, []string{"port=80"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestRecordLevelCallbackUnregistered(t *testing.T) {
	var opts observedOpts
	if _, err := Parse([]string{"--port", "80"}, &opts); err == nil {
		t.Fatal("Parse succeeded with unregistered record callback")
	}
}

func TestCallbackUnregistered(t *testing.T) {
	var opts callbackOpts
	if _, err := Parse([]string{"--version"}, &opts); err == nil {
		t.Fatal("unregistered callback should fail")
	}
}

func TestDoubleDash(t *testing.T) {
	var opts serverOpts
	res, err := Parse([]string{"--port", "80", "--", "--host", "raw"}, &opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Host != "localhost" {
		t.Errorf("Host = %q, flags after -- must not bind", opts.Host)
	}
	want := []string{"--host", "raw"}
	if !reflect.DeepEqual(res.Args, want) {
		t.Errorf("Args = %v, want %v", res.Args, want)
	}
}

func TestHelp(t *testing.T) {
	var opts serverOpts
	var buf bytes.Buffer
	_, err := Parse([]string{"--help"}, &opts, WithOutput(&buf), WithProgram("srv"))
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("error = %v, want ErrHelp", err)
	}
	out := buf.String()
	for _, want := range []string{"Usage: srv", "--host", "-H", "Host to bind", "(required)", "(default localhost)"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestBoolExplicitFalse(t *testing.T) {
	opts := serverOpts{Verbose: true}
	if _, err := Parse([]string{"--port", "80", "--verbose=false"}, &opts); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Verbose {
		t.Error("Verbose = true, want false")
	}
}
