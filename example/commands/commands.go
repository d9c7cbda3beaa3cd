// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Soulsbane/ctoptions/pkg/dispatch"
)

func main() {
	r := dispatch.New("projects")
	r.Register("create", func(lang, gen string) {
		fmt.Printf("creating %s project with generator %s\n", lang, gen)
	}, dispatch.Help("Create a new project"), dispatch.Params("lang", "gen"),
		dispatch.ArgDocs("The language to use", "The generator to use"))
	r.Register("create", func(lang string) {
		fmt.Printf("creating %s project\n", lang)
	}, dispatch.Help("Create a new project with the default generator"),
		dispatch.Params("lang"), dispatch.ArgDocs("The language to use"))
	r.Register("remove", func(name string) {
		fmt.Printf("removing %s\n", name)
	}, dispatch.Help("Remove a project"), dispatch.Aliases("rm"), dispatch.Params("name"))

	if err := r.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
