// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package storage

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/recommend/estimator"
)

// FormatVersion is the bundle file format written by this package.
const FormatVersion = 1

// Errors returned while reading bundle files.
var (
	ErrUnsupportedFormat = errors.New("unsupported bundle format version")
	ErrChecksumMismatch  = errors.New("bundle checksum mismatch")
)

// Metadata describes a stored bundle.
type Metadata struct {
	// Name is the bundle name (e.g., "crops").
	Name string `json:"name"`

	// Version is the bundle version within a store. 0 for standalone files.
	Version int `json:"version"`

	// TrainedAt is when the models were trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the file was written.
	SavedAt time.Time `json:"saved_at"`

	// CropCount is the number of crop classes.
	CropCount int `json:"crop_count"`

	// PricedCrops is the number of entries in the price table.
	PricedCrops int `json:"priced_crops"`

	// Checksum is the SHA-256 of the payload.
	Checksum string `json:"checksum,omitempty"`

	// SizeBytes is the file size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// LabelEncoders holds the class lists of the location and commodity encoders.
type LabelEncoders struct {
	State     []string `json:"state"`
	District  []string `json:"district"`
	Market    []string `json:"market"`
	Commodity []string `json:"commodity"`
}

// Payload is the model content of a bundle file.
type Payload struct {
	FeatureOrder     []string                 `json:"feature_order"`
	Scaler           estimator.StandardScaler `json:"scaler"`
	LabelEncoders    LabelEncoders            `json:"label_encoders"`
	CropClasses      []string                 `json:"crop_classes"`
	SuitabilityModel json.RawMessage          `json:"suitability_model"`
	PriceModel       json.RawMessage          `json:"price_model"`
	Prices           []recommend.PriceEntry   `json:"avg_prices_by_crop"`
}

// Document is a decoded bundle file.
type Document struct {
	FormatVersion int      `json:"format_version"`
	Metadata      Metadata `json:"metadata"`
	Payload       Payload  `json:"-"`
}

// fileEnvelope keeps the payload bytes raw so the checksum covers exactly
// what is on disk.
type fileEnvelope struct {
	FormatVersion int             `json:"format_version"`
	Metadata      Metadata        `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
}

// Bundle decodes the estimators and builds an immutable recommend.Bundle.
func (p *Payload) Bundle() (*recommend.Bundle, error) {
	if !slices.Equal(p.FeatureOrder, recommend.FeatureOrder()) {
		return nil, fmt.Errorf("%w: feature order %v, want %v",
			recommend.ErrInvalidBundle, p.FeatureOrder, recommend.FeatureOrder())
	}
	if len(p.SuitabilityModel) == 0 || len(p.PriceModel) == 0 {
		return nil, fmt.Errorf("%w: suitability_model and price_model are required", recommend.ErrInvalidBundle)
	}

	encoders, err := p.LabelEncoders.build()
	if err != nil {
		return nil, err
	}
	classifier, err := estimator.DecodeClassifier(p.SuitabilityModel)
	if err != nil {
		return nil, fmt.Errorf("suitability model: %w", err)
	}
	regressor, err := estimator.DecodeRegressor(p.PriceModel)
	if err != nil {
		return nil, fmt.Errorf("price model: %w", err)
	}

	return recommend.NewBundle(recommend.BundleParts{
		Scaler:      &p.Scaler,
		Encoders:    encoders,
		Classifier:  classifier,
		CropClasses: p.CropClasses,
		Regressor:   regressor,
		Prices:      p.Prices,
	})
}

func (l LabelEncoders) build() (recommend.EncoderSet, error) {
	var set recommend.EncoderSet
	fields := []struct {
		name    string
		classes []string
		dst     **recommend.Encoder
	}{
		{"state", l.State, &set.State},
		{"district", l.District, &set.District},
		{"market", l.Market, &set.Market},
		{"commodity", l.Commodity, &set.Commodity},
	}
	for _, f := range fields {
		enc, err := recommend.NewEncoder(f.classes)
		if err != nil {
			return recommend.EncoderSet{}, fmt.Errorf("%s encoder: %w", f.name, err)
		}
		*f.dst = enc
	}
	return set, nil
}

// Decode reads a bundle document from r, transparently handling gzip.
func Decode(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("decompress bundle: %w", err)
		}
		defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable
		src = gzr
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if env.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, env.FormatVersion)
	}
	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("%w: missing payload", recommend.ErrInvalidBundle)
	}
	if env.Metadata.Checksum != "" {
		if got := checksum(env.Payload); got != env.Metadata.Checksum {
			return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, env.Metadata.Checksum, got)
		}
	}

	doc := &Document{FormatVersion: env.FormatVersion, Metadata: env.Metadata}
	if err := json.Unmarshal(env.Payload, &doc.Payload); err != nil {
		return nil, fmt.Errorf("parse bundle payload: %w", err)
	}
	return doc, nil
}

// Encode writes a bundle document to w and returns the metadata as written.
// The checksum and counts are filled in from the payload.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func Encode(w io.Writer, p *Payload, meta Metadata, compress bool) (Metadata, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return Metadata{}, fmt.Errorf("encode payload: %w", err)
	}

	meta.Checksum = checksum(payload)
	meta.CropCount = len(p.CropClasses)
	meta.PricedCrops = len(p.Prices)
	if meta.SavedAt.IsZero() {
		meta.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(fileEnvelope{FormatVersion: FormatVersion, Metadata: meta, Payload: payload})
	if err != nil {
		return Metadata{}, fmt.Errorf("encode bundle: %w", err)
	}

	if !compress {
		if _, err := w.Write(data); err != nil {
			return Metadata{}, fmt.Errorf("write bundle: %w", err)
		}
		return meta, nil
	}

	gzw := gzip.NewWriter(w)
	if _, err := gzw.Write(data); err != nil {
		return Metadata{}, fmt.Errorf("compress bundle: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}
	return meta, nil
}

// ReadFile decodes the bundle document at path. A missing file wraps
// os.ErrNotExist.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	doc, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil {
		doc.Metadata.SizeBytes = info.Size()
	}
	return doc, nil
}

// WriteFile writes a bundle document to path, replacing any existing file.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func WriteFile(path string, p *Payload, meta Metadata, compress bool) (Metadata, error) {
	var buf bytes.Buffer
	meta, err := Encode(&buf, p, meta, compress)
	if err != nil {
		return Metadata{}, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o640); err != nil { //nolint:gosec // 0640 is acceptable for model files
		return Metadata{}, fmt.Errorf("write bundle file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return Metadata{}, fmt.Errorf("rename bundle file: %w", err)
	}
	meta.SizeBytes = int64(buf.Len())
	return meta, nil
}

// LoadFile reads the bundle at path and builds the serving bundle.
func LoadFile(ctx context.Context, path string) (*recommend.Bundle, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	doc, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := doc.Payload.Bundle()
	if err != nil {
		return nil, nil, fmt.Errorf("build bundle from %s: %w", path, err)
	}
	return b, &doc.Metadata, nil
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
