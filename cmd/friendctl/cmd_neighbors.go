// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// staticSource serves a snapshot loaded from a file.
type staticSource recommend.PreferenceSnapshot

func (s staticSource) FavoriteGenresByUser(context.Context) (recommend.PreferenceSnapshot, error) {
	return recommend.PreferenceSnapshot(s), nil
}

func newNeighborsCmd() *cobra.Command {
	var (
		snapshotPath string
		user         string
		k            int
	)

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "List the nearest users to --user",
		Long: `Rank every user in the snapshot by cosine distance to --user and print
the nearest ones, nearest first. At most k-1 users are printed.

Example:
  friendctl neighbors --snapshot prefs.yaml --user 11111111-1111-1111-1111-111111111111 --k 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUser(user)
			if err != nil {
				return err
			}
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			cfg := recommend.DefaultConfig()
			svc := recommend.NewService(staticSource(snapshot), cfg, zerolog.Nop(), nil)
			friends, err := svc.FindPotentialFriendsK(cmd.Context(), userID, k)
			if err != nil {
				return fmt.Errorf("find neighbors: %w", err)
			}
			return printNeighbors(cmd, friends)
		},
	}

	snapshotFlag(cmd, &snapshotPath)
	cmd.Flags().StringVarP(&user, "user", "u", "", "Query user id")
	cmd.Flags().IntVar(&k, "k", recommend.DefaultConfig().NeighboursDefault, "Number of rows to search")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
