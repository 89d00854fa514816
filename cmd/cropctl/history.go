// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cropwise/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent predictions from a history database",
	Long: `Open the BadgerDB prediction history written by the server and print the
newest records. Stop the server first; BadgerDB allows one process per
directory.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.String("path", "/data/history", "history database directory")
	f.Int("limit", 20, "number of records to show")
	f.String("id", "", "show a single record by ID")
	f.Bool("json", false, "print records as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	path, _ := f.GetString("path")
	limit, _ := f.GetInt("limit")
	id, _ := f.GetString("id")
	asJSON, _ := f.GetBool("json")

	if limit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

	store, err := history.Open(history.StoreConfig{Path: path})
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }() //nolint:errcheck // read-only use

	var records []*history.Record
	if id != "" {
		rec, err := store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		records = []*history.Record{rec}
	} else {
		records, err = store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	return writeHistoryTable(cmd.OutOrStdout(), records)
}

func writeHistoryTable(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no records")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tINPUT\tMARKET\tSUITABLE\tPROFITABLE\tTOP")
	for _, r := range records {
		input := r.SoilType + "/" + r.Season
		if r.SoilType == "" {
			input = "readings"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.UTC().Format(time.RFC3339), r.ID, input,
			valueOr(r.Market, "-"), r.SuitableCrop, r.MostProfitableCrop,
			strings.Join(r.TopCrops, ","))
	}
	return tw.Flush()
}
