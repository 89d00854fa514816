// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/cache"
	"github.com/tomtom215/cropwise/internal/metrics"
)

// maxListedCrops is the number of crop names reported by Info.
const maxListedCrops = 10

// Engine produces crop recommendations from the published model bundle.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config *Config
	handle *ModelHandle
	logger zerolog.Logger

	cache *cache.LRU[*Result]

	requestCount atomic.Int64
	errorCount   atomic.Int64
	emptyCount   atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, handle *ModelHandle, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if handle == nil {
		return nil, errors.New("model handle is required")
	}

	e := &Engine{
		config: cfg.Clone(),
		handle: handle,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[*Result](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// scoringOptions are request options with defaults applied.
type scoringOptions struct {
	k       int
	weights Weights
}

// Recommend derives the environment from soil type and season and ranks crops.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	bundle, err := e.handle.Bundle()
	if err != nil {
		return nil, e.fail(err, start)
	}
	env, err := DeriveEnvironment(req.SoilType, req.Season)
	if err != nil {
		return nil, e.fail(err, start)
	}
	opts, err := e.prepareOptions(req.Options)
	if err != nil {
		return nil, e.fail(err, start)
	}

	echo := EnvironmentEcho{SoilType: req.SoilType, Season: req.Season, Location: req.Location, Derived: env}
	key := e.cacheKey("soil", req.SoilType, req.Season, req.Location, opts)
	return e.run(ctx, bundle, echo, req.RequestID, key, opts, start)
}

// RecommendEnvironment ranks crops for caller-supplied environment values.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendEnvironment(ctx context.Context, req EnvironmentRequest) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	bundle, err := e.handle.Bundle()
	if err != nil {
		return nil, e.fail(err, start)
	}
	if err := req.Environment.Validate(); err != nil {
		return nil, e.fail(err, start)
	}
	opts, err := e.prepareOptions(req.Options)
	if err != nil {
		return nil, e.fail(err, start)
	}

	env := req.Environment
	echo := EnvironmentEcho{Location: req.Location, Derived: env}
	key := e.cacheKey("env", formatVector(env.Vector()), "", req.Location, opts)
	return e.run(ctx, bundle, echo, req.RequestID, key, opts, start)
}

//nolint:gocritic // hugeParam: echo passed by value, copied into the result
func (e *Engine) run(ctx context.Context, bundle *Bundle, echo EnvironmentEcho, requestID, key string, opts scoringOptions, start time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.fail(err, start)
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logger := e.logger.With().Str("request_id", requestID).Logger()

	if res := e.fromCache(key, requestID, start); res != nil {
		logger.Debug().Msg("cache hit")
		metrics.RecordRecommendation("cache_hit", time.Since(start))
		return res, nil
	}

	cands, err := NewSuitabilityScorer(bundle, e.config.SuitabilityFloor).Candidates(echo.Derived)
	if err != nil {
		return nil, e.fail(fmt.Errorf("score suitability: %w", err), start)
	}
	metrics.RecordCandidates(len(cands))
	if len(cands) == 0 {
		logger.Warn().Float64("floor", e.config.SuitabilityFloor).Msg("no crop reached the suitability floor")
		return nil, e.fail(ErrEmptyCandidateSet, start)
	}

	e.resolvePrices(bundle, cands, echo.Location, logger)
	priced := Blend(cands, opts.weights)
	if priced == 0 {
		logger.Warn().Msg("no price data available for any crop")
	}

	ranking, err := Rank(cands, opts.k)
	if err != nil {
		return nil, e.fail(err, start)
	}

	res := buildResult(ranking, echo, opts.weights, len(cands), priced)
	res.Metadata = ResultMetadata{
		RequestID: requestID,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now(),
	}
	if e.cache != nil {
		e.cache.Add(key, res)
	}

	logger.Info().
		Str("suitable_crop", res.SuitableCrop).
		Str("most_profitable_crop", res.MostProfitableCrop).
		Int("candidates", len(cands)).
		Int("priced", priced).
		Msg("recommendation complete")
	metrics.RecordRecommendation("success", time.Since(start))

	return res.clone(), nil
}

// resolvePrices runs the price chain for every candidate in place.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) resolvePrices(bundle *Bundle, cands []Candidate, loc Location, logger zerolog.Logger) {
	resolver := NewPriceResolver(bundle)
	codes := bundle.encoders.EncodeLocation(loc)

	for i := range cands {
		c := &cands[i]
		r := resolver.Resolve(PriceQuery{Crop: c.Crop, Location: codes})
		c.Price, c.Priced, c.PriceSource = r.Price, r.Found, r.Source
		metrics.RecordPriceResolution(string(r.Source))

		if r.Found {
			logger.Debug().Str("crop", c.Crop).Str("source", string(r.Source)).Float64("price", r.Price).Msg("price resolved")
		} else {
			logger.Debug().Str("crop", c.Crop).Msg("no price found")
		}
	}
}

func buildResult(r Ranking, echo EnvironmentEcho, w Weights, evaluated, priced int) *Result {
	res := &Result{
		SuitableCrop:       r.BestBySuitability.Crop,
		MostProfitableCrop: r.BestBySuitability.Crop,
		Environment:        echo,
		Weights:            w,
		Diagnostics: Diagnostics{
			Evaluated: evaluated,
			Priced:    priced,
			Unpriced:  evaluated - priced,
		},
	}
	if r.MostProfitable != nil {
		price := r.MostProfitable.Price
		res.MostProfitableCrop = r.MostProfitable.Crop
		res.MostProfitablePrice = &price
	}

	res.Top = make([]RankedCrop, len(r.Top))
	for i, c := range r.Top {
		rc := RankedCrop{
			Crop:        c.Crop,
			PriceSource: c.PriceSource,
			Suitability: c.Suitability,
			Combined:    c.Combined,
		}
		if c.Priced {
			price := c.Price
			rc.Price = &price
		}
		res.Top[i] = rc
	}
	return res
}

// clone deep-copies a result so callers cannot mutate cached state.
func (r *Result) clone() *Result {
	cp := *r
	cp.MostProfitablePrice = copyPrice(r.MostProfitablePrice)
	cp.Top = make([]RankedCrop, len(r.Top))
	for i, rc := range r.Top {
		rc.Price = copyPrice(rc.Price)
		cp.Top[i] = rc
	}
	return &cp
}

func copyPrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (e *Engine) prepareOptions(o Options) (scoringOptions, error) {
	opts := scoringOptions{k: o.TopK, weights: e.config.Weights}
	if opts.k <= 0 {
		opts.k = e.config.Limits.DefaultK
	}
	if opts.k > e.config.Limits.MaxK {
		opts.k = e.config.Limits.MaxK
	}
	if o.PriceWeight != nil {
		opts.weights.Price = *o.PriceWeight
	}
	if o.SuitabilityWeight != nil {
		opts.weights.Suitability = *o.SuitabilityWeight
	}
	if err := opts.weights.Validate(); err != nil {
		return scoringOptions{}, err
	}
	return opts, nil
}

func (e *Engine) fromCache(key, requestID string, start time.Time) *Result {
	if e.cache == nil {
		return nil
	}
	cached, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}
	e.cacheHits.Add(1)

	res := cached.clone()
	res.Metadata = ResultMetadata{
		RequestID: requestID,
		LatencyMS: time.Since(start).Milliseconds(),
		CacheHit:  true,
		Timestamp: time.Now(),
	}
	return res
}

//nolint:gocritic // hugeParam: opts is small
func (e *Engine) cacheKey(mode, a, b string, loc Location, opts scoringOptions) string {
	return strings.Join([]string{
		mode, a, b, loc.State, loc.District, loc.Market,
		strconv.Itoa(opts.k),
		strconv.FormatFloat(opts.weights.Price, 'g', -1, 64),
		strconv.FormatFloat(opts.weights.Suitability, 'g', -1, 64),
	}, "\x1f")
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// fail counts an error and records its outcome.
func (e *Engine) fail(err error, start time.Time) error {
	outcome := "error"
	switch {
	case errors.Is(err, ErrModelNotReady):
		outcome = "not_ready"
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidEnvironment), errors.Is(err, ErrInvalidWeights):
		outcome = "invalid_input"
	case errors.Is(err, ErrEmptyCandidateSet):
		outcome = "empty"
		e.emptyCount.Add(1)
	default:
		e.errorCount.Add(1)
	}
	metrics.RecordRecommendation(outcome, time.Since(start))
	return err
}

// Info describes the published bundle.
func (e *Engine) Info() (*ModelInfo, error) {
	bundle, err := e.handle.Bundle()
	if err != nil {
		return nil, err
	}

	crops := bundle.crops.classes
	if len(crops) > maxListedCrops {
		crops = crops[:maxListedCrops]
	}
	return &ModelInfo{
		SuitabilityModel:   bundle.ClassifierKind(),
		PriceModel:         bundle.RegressorKind(),
		AvailableCrops:     bundle.crops.Len(),
		CropsWithPriceData: bundle.prices.Len(),
		CropList:           append([]string(nil), crops...),
		SupportedSoilTypes: SoilTypes(),
		SupportedSeasons:   SeasonTypes(),
	}, nil
}

// Locations lists the states, districts, markets and commodities the price
// model knows.
func (e *Engine) Locations() (*KnownLocations, error) {
	bundle, err := e.handle.Bundle()
	if err != nil {
		return nil, err
	}
	enc := bundle.encoders
	return &KnownLocations{
		States:      enc.State.Classes(),
		Districts:   enc.District.Classes(),
		Markets:     enc.Market.Classes(),
		Commodities: enc.Commodity.Classes(),
	}, nil
}

// Ready reports whether a bundle is published.
func (e *Engine) Ready() bool {
	return e.handle.Ready()
}

// Handle returns the model handle the engine reads from.
func (e *Engine) Handle() *ModelHandle {
	return e.handle
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
		EmptyResults: e.emptyCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
	}
	if e.cache != nil {
		s.CacheEntries = e.cache.Len()
	}
	return s
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
