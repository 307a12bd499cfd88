// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Command friendctl runs friend recommendations against a YAML preference
// snapshot, or against a running server over NATS.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "friendctl",
		Short: "Genre-based friend recommendations from the command line",
		Long: `friendctl finds users with similar music taste.

Offline commands read a snapshot file:

  users:
    - id: 11111111-1111-1111-1111-111111111111
      genres: [1, 2]

The request command asks a running server over NATS and the update
command publishes preference changes to it.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newNeighborsCmd(),
		newEncodeCmd(),
		newCompatCmd(),
		newRequestCmd(),
		newUpdateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the friendctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "friendctl %s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
