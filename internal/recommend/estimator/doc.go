// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package estimator evaluates pretrained models exported from the offline
// training pipeline.
//
// The training side fits a feature scaler, a random forest suitability
// classifier and a voting price regressor. Those models are exported as plain
// arrays (tree node tables, coefficients) and evaluated here without any
// dependency on the training runtime.
//
// # Supported Models
//
//   - StandardScaler: per-feature standardization (x - mean) / scale
//   - ForestClassifier: averaged per-tree class distributions
//   - ForestRegressor: averaged per-tree leaf values
//   - GradientBoostingRegressor: init + learning_rate * sum(tree outputs)
//   - RidgeRegressor: intercept + coef . x
//   - VotingRegressor: weighted mean of child regressors
//
// # Serialization
//
// Every model is a JSON object with a "type" discriminator. Use
// DecodeClassifier and DecodeRegressor to turn raw JSON into evaluators.
//
// # Thread Safety
//
// Models are read-only after decoding. All evaluation methods are safe for
// concurrent use.
//
// # Errors
//
// Evaluation never panics on malformed input. Dimension mismatches, broken
// node references and non-finite outputs are returned as errors so callers
// can decide whether to skip or fail.
package estimator
