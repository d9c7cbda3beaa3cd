// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ctopt is a demo front end for the binding packages: it keeps
// a player profile in a key = value config file, exposes the fields as
// dispatch commands, and binds CLI flags onto the record for the play
// command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Soulsbane/ctoptions/pkg/dispatch"
	"github.com/Soulsbane/ctoptions/pkg/field"
	"github.com/Soulsbane/ctoptions/pkg/flagbind"
	"github.com/Soulsbane/ctoptions/pkg/store"
)

const version = "1.0.0"

type profile struct {
	field.Settings `passthrough:"true"`

	Name    string  `flag:"name" short:"n" help:"Name of the player" default:"Anonymous"`
	Level   int     `flag:"level" short:"l" help:"Starting level" default:"1"`
	Score   float64 `flag:"score" help:"Current score"`
	Admin   bool    `flag:"admin" help:"Grant admin rights" nosave:"true"`
	Version bool    `flag:"version" help:"Print the version and exit" callback:"version"`
}

func configPath() string {
	if p := os.Getenv("CTOPT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".ctopt", store.DefaultFileName)
}

func main() {
	log.SetFlags(0)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	prof := &profile{}
	st, err := store.New(prof)
	if err != nil {
		log.Fatalf("ctopt: %v", err)
	}
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("ctopt: %v", err)
	}
	if err := st.CreateDefaultFile(path, false); err != nil {
		log.Fatalf("ctopt: %v", err)
	}
	st.LoadFile(path, true)
	defer st.Close()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "play" {
		if err := runPlay(args[1:], prof); err != nil {
			fail(err)
		}
		return
	}
	if err := buildRegistry(st).Run(context.Background(), args); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err))
	os.Exit(1)
}

// runPlay binds the remaining argument vector straight onto the
// profile record.
func runPlay(args []string, prof *profile) error {
	cbs := map[string]flagbind.CallbackFunc{
		"version": func(_, _ string) error {
			fmt.Println("ctopt " + version)
			os.Exit(0)
			return nil
		},
	}
	res, err := flagbind.Parse(args, prof, flagbind.WithCallbacks(cbs), flagbind.WithProgram("ctopt play"))
	if err != nil {
		return err
	}
	fmt.Printf("playing as %s (level %d, score %g)\n", prof.Name, prof.Level, prof.Score)
	if prof.Admin {
		fmt.Println("admin rights granted")
	}
	if len(res.Passthrough) > 0 {
		fmt.Printf("passed through: %v\n", res.Passthrough)
	}
	return nil
}

func buildRegistry(st *store.Store) *dispatch.Registry {
	r := dispatch.New("ctopt")
	must(r.Register("get", func(key string) {
		if !st.Contains(key) {
			fmt.Printf("unknown key: %s\n", key)
			return
		}
		fmt.Println(st.Get(key, nil))
	}, dispatch.Help("Print the value of one config key"), dispatch.Params("key"),
		dispatch.ArgDocs("Name of the key to read")))

	must(r.Register("set", func(key, value string) {
		if !st.Contains(key) {
			fmt.Printf("unknown key: %s\n", key)
			return
		}
		st.Set(key, value)
	}, dispatch.Help("Set one config key"), dispatch.Params("key", "value"),
		dispatch.ArgDocs("Name of the key to write", "New value")))

	must(r.Register("list", func() {
		for _, d := range st.Descriptors() {
			fmt.Printf("%s = %s\n", d.Key, field.Format(d.Kind, st.Get(d.Key, nil)))
		}
	}, dispatch.Help("List every config key and its current value")))

	must(r.Register("save", func() error {
		return st.Save()
	}, dispatch.Help("Write the config back to its backing file")))

	must(r.Register("reset", func(force bool) error {
		return st.CreateDefaultFile(configPath(), force)
	}, dispatch.Help("Recreate the config file with default values"),
		dispatch.Params("force"), dispatch.ArgDocs("Overwrite an existing file"),
		dispatch.Defaults(false)))
	return r
}

func must(err error) {
	if err != nil {
		log.Fatalf("ctopt: %v", err)
	}
}
