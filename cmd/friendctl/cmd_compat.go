// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

func newCompatCmd() *cobra.Command {
	var (
		snapshotPath string
		user         string
		candidates   []string
	)

	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Score genre overlap between --user and candidates",
		Long: `Print the Jaccard genre overlap, as a percentage, between --user and
each candidate. Candidates sharing no genre are omitted.

Example:
  friendctl compat -s prefs.yaml -u <uuid> --candidates <uuid>,<uuid>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUser(user)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(candidates))
			for _, raw := range candidates {
				id, err := uuid.Parse(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("invalid candidate %q: %w", raw, err)
				}
				ids = append(ids, id)
			}
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			svc := recommend.NewService(staticSource(snapshot), recommend.DefaultConfig(), zerolog.Nop(), nil)
			scores, err := svc.Compatibility(cmd.Context(), userID, ids)
			if err != nil {
				return fmt.Errorf("compatibility: %w", err)
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, scores)
			}
			for _, s := range scores {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %.2f%%\n", s.UserID, s.Percentage)
			}
			return nil
		},
	}

	snapshotFlag(cmd, &snapshotPath)
	cmd.Flags().StringVarP(&user, "user", "u", "", "Query user id")
	cmd.Flags().StringSliceVar(&candidates, "candidates", nil, "Comma-separated candidate user ids")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("candidates")
	return cmd
}
