// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/events"
	"github.com/tomtom215/soundhub-friends/internal/logging"
)

func newRequestCmd() *cobra.Command {
	var (
		natsURL string
		user    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask a running server for recommendations over NATS",
		Long: `Publish a recommendation request on the configured request topic and
wait for the reply. Topics come from the server configuration (config.yaml
and environment); --nats-url overrides NATS_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUser(user)
			if err != nil {
				return err
			}

			eventsCfg, err := natsEventsConfig(natsURL)
			if err != nil {
				return err
			}
			// Replies must reach this process, not one member of a group.
			eventsCfg.QueueGroup = ""

			ps, err := events.NewPubSub(eventsCfg, logging.NewWatermillLogger())
			if err != nil {
				return err
			}
			defer func() { _ = ps.Close() }()

			requester, err := events.NewRequester(cmd.Context(), eventsCfg, ps)
			if err != nil {
				return err
			}
			defer requester.Close()

			friends, err := requester.Request(cmd.Context(), userID, timeout)
			if err != nil {
				return err
			}
			return printNeighbors(cmd, friends)
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Query user id")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for the reply")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// natsEventsConfig loads the server's events section, applying the
// --nats-url override.
func natsEventsConfig(natsURL string) (config.EventsConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.EventsConfig{}, fmt.Errorf("load configuration: %w", err)
	}
	eventsCfg := cfg.Events
	if natsURL != "" {
		eventsCfg.NATSURL = natsURL
	}
	if eventsCfg.NATSURL == "" {
		return config.EventsConfig{}, errors.New("a NATS URL is required (--nats-url or NATS_URL)")
	}
	return eventsCfg, nil
}
