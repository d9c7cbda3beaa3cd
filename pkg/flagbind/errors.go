// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagbind

import (
	"errors"
	"fmt"

	"github.com/Soulsbane/ctoptions/pkg/field"
)

// ErrHelp is returned by Parse after help output was requested and
// rendered. Callers usually exit zero on it.
var ErrHelp = errors.New("help requested")

// MissingFlagError reports a required flag that never appeared in the
// argument list.
type MissingFlagError struct {
	Flag string
	Kind field.Kind
}

func (e *MissingFlagError) Error() string {
	return fmt.Sprintf("missing required flag --%s (%s)", e.Flag, e.Kind)
}

// UnknownFlagError reports a flag no descriptor matched. It is only
// returned when pass-through is off.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag %q", e.Flag)
}
