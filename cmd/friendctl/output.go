// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
	"github.com/tomtom215/soundhub-friends/internal/snapshotfile"
)

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printNeighbors(cmd *cobra.Command, friends recommend.NeighborResult) error {
	if friends == nil {
		friends = recommend.NeighborResult{}
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, friends)
	}
	for _, id := range friends {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

// snapshotFlag registers the required --snapshot flag.
func snapshotFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "snapshot", "s", "", "Path to a YAML preference snapshot")
	_ = cmd.MarkFlagRequired("snapshot")
}

func loadSnapshot(path string) (recommend.PreferenceSnapshot, error) {
	snapshot, err := snapshotfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

func parseUser(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user %q: %w", raw, err)
	}
	return id, nil
}
