// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

type encodedRow struct {
	UserID string `json:"user_id"`
	Bits   string `json:"bits"`
}

type encodedOutput struct {
	Columns []int        `json:"columns"`
	Rows    []encodedRow `json:"rows"`
}

func newEncodeCmd() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the binary genre matrix of a snapshot",
		Long: `Print the sorted genre universe followed by one 0/1 row per user, in
snapshot order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			m, _, err := recommend.Encode(snapshot)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			out := encodedOutput{Columns: m.Columns(), Rows: make([]encodedRow, m.Rows())}
			for r := range out.Rows {
				out.Rows[r] = encodedRow{UserID: m.UserID(r).String(), Bits: bitString(m.Row(r))}
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "columns: %s\n", joinInts(out.Columns))
			for _, row := range out.Rows {
				fmt.Fprintf(w, "%s %s\n", row.UserID, row.Bits)
			}
			return nil
		},
	}

	snapshotFlag(cmd, &snapshotPath)
	return cmd
}

func bitString(row []uint8) string {
	var b strings.Builder
	b.Grow(len(row))
	for _, v := range row {
		b.WriteByte('0' + v)
	}
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
