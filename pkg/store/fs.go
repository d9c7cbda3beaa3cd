// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import "os"

// FileSystem is the narrow source/sink the store reads and writes
// config files through. The default implementation hits the OS; tests
// swap in an in-memory one.
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// MemFS is an in-memory FileSystem, mainly for tests. The zero value
// is ready to use.
type MemFS struct {
	Files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{Files: make(map[string][]byte)}
}

func (m *MemFS) Exists(path string) bool {
	_, ok := m.Files[path]
	return ok
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	b, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	if m.Files == nil {
		m.Files = make(map[string][]byte)
	}
	m.Files[path] = append([]byte(nil), data...)
	return nil
}
