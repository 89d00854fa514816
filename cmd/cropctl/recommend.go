// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/recommend/storage"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend crops for a soil type and season, or raw readings",
	Long: `Load a model bundle and print the top-K crops for one set of conditions.

Either --soil and --season, or every raw reading (--n --p --k --temperature
--humidity --ph --rainfall) must be given.

Examples:
  # Categorical inputs
  cropctl recommend --bundle models/crop_bundle.json.gz --soil Loamy --season Kharif \
    --state Punjab --district Ludhiana --market Khanna

  # Raw readings, JSON output
  cropctl recommend --store /data/models --n 90 --p 42 --k 43 --temperature 21 \
    --humidity 82 --ph 6.5 --rainfall 203 --json`,
	RunE: runRecommend,
}

var envFlags = []string{"n", "p", "k", "temperature", "humidity", "ph", "rainfall"}

func init() {
	f := recommendCmd.Flags()
	f.String("bundle", "", "bundle file to load")
	f.String("store", "", "versioned model store directory (used when --bundle is empty)")
	f.String("name", "crop", "bundle name inside --store")
	f.String("soil", "", "soil type: Loamy, Clay, Sandy, Black")
	f.String("season", "", "season: Rabi, Kharif, Summer")
	f.String("state", "", "state for the price model")
	f.String("district", "", "district for the price model")
	f.String("market", "", "market for the price model")
	f.Int("top-k", 0, "number of crops to return (0 = default)")
	f.Float64("price-weight", recommend.DefaultPriceWeight, "weight of the price score")
	f.Float64("suitability-weight", recommend.DefaultSuitabilityWeight, "weight of the suitability score")
	f.Bool("json", false, "print the full result as JSON")
	for _, name := range envFlags {
		f.Float64(name, 0, "raw reading: "+name)
	}

	rootCmd.AddCommand(recommendCmd)
}

// loadBundle resolves the --bundle / --store flags.
func loadBundle(ctx context.Context, cmd *cobra.Command) (*recommend.Bundle, string, error) {
	path, _ := cmd.Flags().GetString("bundle")
	storeDir, _ := cmd.Flags().GetString("store")
	name, _ := cmd.Flags().GetString("name")

	switch {
	case path != "":
		b, _, err := storage.LoadFile(ctx, path)
		return b, path, err
	case storeDir != "":
		store, err := storage.NewStore(storeDir)
		if err != nil {
			return nil, "", err
		}
		b, meta, err := store.Load(ctx, name, 0)
		if err != nil {
			return nil, "", err
		}
		return b, fmt.Sprintf("%s v%d", meta.Name, meta.Version), nil
	default:
		return nil, "", errors.New("one of --bundle or --store is required")
	}
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f := cmd.Flags()
	soil, _ := f.GetString("soil")
	season, _ := f.GetString("season")

	envMode := false
	for _, name := range envFlags {
		if f.Changed(name) {
			envMode = true
		}
	}
	if envMode && (soil != "" || season != "") {
		return errors.New("--soil/--season cannot be combined with raw readings")
	}
	if !envMode && (soil == "" || season == "") {
		return errors.New("--soil and --season are required without raw readings")
	}

	bundle, source, err := loadBundle(ctx, cmd)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}

	handle := recommend.NewModelHandle(source)
	handle.Publish(bundle)
	cfg := recommend.DefaultConfig()
	cfg.Cache.Enabled = false
	engine, err := recommend.NewEngine(cfg, handle, logging.WithComponent("engine"))
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}
	loc := recommend.Location{}
	loc.State, _ = f.GetString("state")
	loc.District, _ = f.GetString("district")
	loc.Market, _ = f.GetString("market")
	requestID := logging.GenerateRequestID()

	var res *recommend.Result
	if envMode {
		var env recommend.Environment
		env.N, _ = f.GetFloat64("n")
		env.P, _ = f.GetFloat64("p")
		env.K, _ = f.GetFloat64("k")
		env.Temperature, _ = f.GetFloat64("temperature")
		env.Humidity, _ = f.GetFloat64("humidity")
		env.PH, _ = f.GetFloat64("ph")
		env.Rainfall, _ = f.GetFloat64("rainfall")
		res, err = engine.RecommendEnvironment(ctx, recommend.EnvironmentRequest{
			RequestID: requestID, Environment: env, Location: loc, Options: opts,
		})
	} else {
		res, err = engine.Recommend(ctx, recommend.Request{
			RequestID: requestID, SoilType: soil, Season: season, Location: loc, Options: opts,
		})
	}
	if err != nil {
		return err
	}

	if asJSON, _ := f.GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return writeResultTable(cmd.OutOrStdout(), res)
}

func optionsFromFlags(cmd *cobra.Command) (recommend.Options, error) {
	f := cmd.Flags()
	var opts recommend.Options
	opts.TopK, _ = f.GetInt("top-k")
	if opts.TopK < 0 {
		return opts, errors.New("--top-k must not be negative")
	}
	if f.Changed("price-weight") {
		w, _ := f.GetFloat64("price-weight")
		opts.PriceWeight = &w
	}
	if f.Changed("suitability-weight") {
		w, _ := f.GetFloat64("suitability-weight")
		opts.SuitabilityWeight = &w
	}
	return opts, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeResultTable(w io.Writer, res *recommend.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Most suitable:\t%s\n", res.SuitableCrop)
	fmt.Fprintf(tw, "Most profitable:\t%s (%s)\n", res.MostProfitableCrop, formatPrice(res.MostProfitablePrice))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RANK\tCROP\tSUITABILITY\tPRICE\tSOURCE\tSCORE")
	for i, c := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%s\t%s\t%.4f\n",
			i+1, c.Crop, c.Suitability, formatPrice(c.Price), c.PriceSource, c.Combined)
	}
	return tw.Flush()
}

func formatPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *p)
}
