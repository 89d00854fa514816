// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// maxVotingDepth bounds nested voting regressors.
const maxVotingDepth = 4

type validator interface {
	Validate() error
}

type typeHeader struct {
	Type string `json:"type"`
}

// DecodeClassifier decodes and validates a classifier document.
func DecodeClassifier(data []byte) (Classifier, error) {
	var hdr typeHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("decode classifier header: %w", err)
	}

	switch hdr.Type {
	case KindRandomForest:
		var f ForestClassifier
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s classifier: %w", hdr.Type, err)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%w: unsupported classifier type %q", ErrMalformedModel, hdr.Type)
	}
}

// DecodeRegressor decodes and validates a regressor document.
func DecodeRegressor(data []byte) (Regressor, error) {
	return decodeRegressor(data, 0)
}

func decodeRegressor(data []byte, depth int) (Regressor, error) {
	var hdr typeHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("decode regressor header: %w", err)
	}

	var reg Regressor
	switch hdr.Type {
	case KindRandomForest:
		reg = &ForestRegressor{}
	case KindGradientBoosting:
		reg = &GradientBoostingRegressor{}
	case KindRidge:
		reg = &RidgeRegressor{}
	case KindVoting:
		return decodeVoting(data, depth)
	default:
		return nil, fmt.Errorf("%w: unsupported regressor type %q", ErrMalformedModel, hdr.Type)
	}

	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("decode %s regressor: %w", hdr.Type, err)
	}
	if err := reg.(validator).Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func decodeVoting(data []byte, depth int) (Regressor, error) {
	if depth >= maxVotingDepth {
		return nil, fmt.Errorf("%w: voting regressors nested too deeply", ErrMalformedModel)
	}

	var doc struct {
		Estimators []json.RawMessage `json:"estimators"`
		Weights    []float64         `json:"weights"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode voting regressor: %w", err)
	}

	v := &VotingRegressor{Weights: doc.Weights}
	for i, raw := range doc.Estimators {
		est, err := decodeRegressor(raw, depth+1)
		if err != nil {
			return nil, fmt.Errorf("voting estimator %d: %w", i, err)
		}
		v.Estimators = append(v.Estimators, est)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}
