// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagbind

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

func renderHelp(w io.Writer, program string, descs []field.Descriptor) {
	bold := color.New(color.Bold)
	if program != "" {
		fmt.Fprintf(w, "Usage: %s [options]\n\n", program)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range descs {
		if !d.Bound {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s%s\n", bold.Sprint(flagColumn(d)), d.Help, helpSuffix(d))
	}
	fmt.Fprintf(tw, "  %s\tShow this help text\n", bold.Sprint("--help, -h"))
	tw.Flush()
}

func flagColumn(d field.Descriptor) string {
	long, short, ok := strings.Cut(d.Spec(), "|")
	if ok {
		return fmt.Sprintf("--%s, -%s", long, short)
	}
	return "--" + long
}

func helpSuffix(d field.Descriptor) string {
	switch {
	case d.Required:
		return " (required)"
	case d.Default != "":
		return fmt.Sprintf(" (default %s)", d.Default)
	default:
		return ""
	}
}
