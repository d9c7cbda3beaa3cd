// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

func (r *Registry) runHelp(args []string) {
	if len(args) == 0 {
		r.printSummary()
		return
	}
	overloads := r.find(args[0])
	if len(overloads) == 0 {
		fmt.Fprintln(r.out, "Command not found!")
		return
	}
	r.printUsage(overloads)
	if len(args) > 1 {
		fmt.Fprintf(r.out, "Invalid argument: %s\n", args[1])
	}
}

// printSummary emits one line per registered command, overloads
// collapsed to their first registration.
func (r *Registry) printSummary() {
	bold := color.New(color.Bold)
	fmt.Fprintf(r.out, "Usage: %s <command> [args...]\n\n", r.program)
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	seen := make(map[string]bool)
	for _, c := range r.cmds {
		key := strings.ToLower(c.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		name := c.name
		if len(c.aliases) > 0 {
			name += " (" + strings.Join(c.aliases, ", ") + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", bold.Sprint(name), c.help)
	}
	tw.Flush()
	fmt.Fprintf(r.out, "\nRun '%s help <command>' for details.\n", r.program)
}

// printUsage emits full usage for every overload of one command.
func (r *Registry) printUsage(overloads []*command) {
	bold := color.New(color.Bold)
	for _, c := range overloads {
		fmt.Fprintf(r.out, "%s %s\n", bold.Sprint(c.name), signature(c))
		if c.help != "" {
			fmt.Fprintf(r.out, "  %s\n", c.help)
		}
		for i, p := range c.params {
			line := fmt.Sprintf("    %s (%s", p.name, p.kind)
			if p.hasDef {
				line += fmt.Sprintf(", default %s", field.Format(p.kind, p.defVal))
			}
			line += ")"
			if i < len(c.argDocs) && c.argDocs[i] != "" {
				line += " - " + c.argDocs[i]
			}
			fmt.Fprintln(r.out, line)
		}
	}
}

func signature(c *command) string {
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		if p.hasDef {
			parts[i] = "[" + p.name + "]"
		} else {
			parts[i] = "<" + p.name + ">"
		}
	}
	return strings.Join(parts, " ")
}
