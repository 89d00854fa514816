// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/recommend/storage"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Inspect model bundles and manage a versioned model store",
}

var bundleInspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Validate a bundle file and print its metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundleInspect,
}

var bundleImportCmd = &cobra.Command{
	Use:   "import PATH",
	Short: "Validate a bundle file and save it as a new store version",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundleImport,
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every bundle version in a store",
	Args:  cobra.NoArgs,
	RunE:  runBundleList,
}

var bundlePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest versions of a bundle",
	Args:  cobra.NoArgs,
	RunE:  runBundlePrune,
}

func init() {
	for _, c := range []*cobra.Command{bundleImportCmd, bundleListCmd, bundlePruneCmd} {
		c.Flags().String("store", "", "model store directory")
		_ = c.MarkFlagRequired("store") //nolint:errcheck // flag defined above
	}
	bundleImportCmd.Flags().String("name", "crop", "bundle name")
	bundleImportCmd.Flags().Int("version", 0, "version to write (0 = next)")
	bundlePruneCmd.Flags().String("name", "crop", "bundle name")
	bundlePruneCmd.Flags().Int("keep", 3, "number of versions to keep")

	bundleCmd.AddCommand(bundleInspectCmd, bundleImportCmd, bundleListCmd, bundlePruneCmd)
	rootCmd.AddCommand(bundleCmd)
}

func runBundleInspect(cmd *cobra.Command, args []string) error {
	doc, err := storage.ReadFile(args[0])
	if err != nil {
		return err
	}
	bundle, err := doc.Payload.Bundle()
	if err != nil {
		return fmt.Errorf("bundle is invalid: %w", err)
	}

	m := doc.Metadata
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", valueOr(m.Name, "-"))
	fmt.Fprintf(tw, "Format:\tv%d\n", doc.FormatVersion)
	fmt.Fprintf(tw, "Trained:\t%s\n", formatTime(m.TrainedAt))
	fmt.Fprintf(tw, "Saved:\t%s\n", formatTime(m.SavedAt))
	fmt.Fprintf(tw, "Size:\t%d bytes\n", m.SizeBytes)
	fmt.Fprintf(tw, "Checksum:\t%s\n", valueOr(m.Checksum, "none"))
	fmt.Fprintf(tw, "Suitability model:\t%s\n", bundle.ClassifierKind())
	fmt.Fprintf(tw, "Price model:\t%s\n", bundle.RegressorKind())
	fmt.Fprintf(tw, "Crops:\t%d\n", bundle.Crops().Len())
	fmt.Fprintf(tw, "Priced crops:\t%d\n", len(doc.Payload.Prices))
	fmt.Fprintf(tw, "Markets:\t%d\n", bundle.Encoders().Market.Len())
	return tw.Flush()
}

func runBundleImport(cmd *cobra.Command, args []string) error {
	storeDir, _ := cmd.Flags().GetString("store")
	name, _ := cmd.Flags().GetString("name")
	version, _ := cmd.Flags().GetInt("version")

	doc, err := storage.ReadFile(args[0])
	if err != nil {
		return err
	}
	store, err := storage.NewStore(storeDir)
	if err != nil {
		return err
	}
	meta, err := store.Save(cmd.Context(), name, version, &doc.Payload, doc.Metadata)
	if err != nil {
		return err
	}

	logging.Info().Str("name", meta.Name).Int("version", meta.Version).Str("store", storeDir).Msg("Bundle imported")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s v%d (%d bytes, sha256 %s)\n",
		meta.Name, meta.Version, meta.SizeBytes, meta.Checksum)
	return err
}

func runBundleList(cmd *cobra.Command, _ []string) error {
	storeDir, _ := cmd.Flags().GetString("store")
	store, err := storage.NewStore(storeDir)
	if err != nil {
		return err
	}
	metas, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	return writeBundleList(cmd.OutOrStdout(), metas)
}

func writeBundleList(w io.Writer, metas []storage.Metadata) error {
	if len(metas) == 0 {
		_, err := fmt.Fprintln(w, "no bundles")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tCROPS\tPRICED\tTRAINED\tSIZE")
	for _, m := range metas {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\n",
			m.Name, m.Version, m.CropCount, m.PricedCrops, formatTime(m.TrainedAt), m.SizeBytes)
	}
	return tw.Flush()
}

func runBundlePrune(cmd *cobra.Command, _ []string) error {
	storeDir, _ := cmd.Flags().GetString("store")
	name, _ := cmd.Flags().GetString("name")
	keep, _ := cmd.Flags().GetInt("keep")

	store, err := storage.NewStore(storeDir)
	if err != nil {
		return err
	}
	removed, err := store.Prune(cmd.Context(), name, keep)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d version(s) of %s\n", removed, name)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
