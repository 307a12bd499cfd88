// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/events"
	"github.com/tomtom215/soundhub-friends/internal/logging"
)

func newUpdateCmd() *cobra.Command {
	var (
		natsURL string
		user    string
		genres  []int
		deleted bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Publish a preferences update over NATS",
		Long: `Publish a preferences-updated event. Servers backed by DuckDB store the
new favorite genres; every server drops its cached snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUser(user)
			if err != nil {
				return err
			}
			if deleted && len(genres) > 0 {
				return errors.New("--genres and --delete are mutually exclusive")
			}

			eventsCfg, err := natsEventsConfig(natsURL)
			if err != nil {
				return err
			}

			msg, err := events.NewPreferencesMessage(events.PreferencesUpdate{
				UserID:   userID,
				GenreIDs: genres,
				Deleted:  deleted,
			})
			if err != nil {
				return err
			}

			ps, err := events.NewPubSub(eventsCfg, logging.NewWatermillLogger())
			if err != nil {
				return err
			}
			defer func() { _ = ps.Close() }()

			if err := ps.Publisher.Publish(eventsCfg.PreferencesTopic, msg); err != nil {
				return fmt.Errorf("publish preferences update: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", msg.UUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")
	cmd.Flags().StringVarP(&user, "user", "u", "", "User id")
	cmd.Flags().IntSliceVarP(&genres, "genres", "g", nil, "Favorite genre ids, replacing the current set")
	cmd.Flags().BoolVar(&deleted, "delete", false, "Remove the user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
