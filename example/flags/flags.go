// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Soulsbane/ctoptions/pkg/flagbind"
)

type options struct {
	Name    string `flag:"name" short:"n" help:"Name to greet" default:"world"`
	Shout   bool   `flag:"shout" short:"s" help:"Greet loudly"`
	Repeat  int    `flag:"repeat" help:"How many times to greet" default:"1"`
}

func main() {
	var opts options
	_, err := flagbind.Parse(os.Args[1:], &opts)
	if errors.Is(err, flagbind.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	greeting := "Hello, " + opts.Name + "!"
	if opts.Shout {
		greeting = "HELLO, " + opts.Name + "!!!"
	}
	for i := 0; i < opts.Repeat; i++ {
		fmt.Println(greeting)
	}
}
