// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package snapshotfile reads and writes preference snapshots as YAML.
//
//	users:
//	  - id: 6f1c2a4e-8d0b-4f2a-9c1e-2b7d5a3e9f10
//	    genres: [1, 4, 12]
package snapshotfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// File is the on-disk document.
type File struct {
	Users recommend.PreferenceSnapshot `yaml:"users"`
}

// Load reads the snapshot stored at path.
func Load(path string) (recommend.PreferenceSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	snapshot, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

// Decode parses a snapshot document. Unknown keys and nil user ids are
// rejected. An empty document is an empty snapshot.
func Decode(r io.Reader) (recommend.PreferenceSnapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return recommend.PreferenceSnapshot{}, nil
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	for i, u := range f.Users {
		if u.UserID == uuid.Nil {
			return nil, fmt.Errorf("users[%d]: missing id", i)
		}
	}
	if f.Users == nil {
		f.Users = recommend.PreferenceSnapshot{}
	}
	return f.Users, nil
}

// Encode writes snapshot as a YAML document.
func Encode(w io.Writer, snapshot recommend.PreferenceSnapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Users: snapshot}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}
