// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package storage reads and writes model bundle files.
//
// A bundle file carries everything the recommendation engine needs at
// serving time: the feature scaler, the four label encoders, the crop
// suitability classifier with its crop class list, the price regressor and
// the per-crop average price table. Files are produced by the training
// pipeline and loaded once at startup.
//
// # File Format
//
// Bundles are JSON documents, optionally gzip-compressed:
//
//	{
//	  "format_version": 1,
//	  "metadata": {"name": "crops", "version": 3, "checksum": "...", ...},
//	  "payload": {
//	    "feature_order": ["N", "P", "K", "temperature", "humidity", "ph", "rainfall"],
//	    "scaler": {"mean": [...], "scale": [...]},
//	    "label_encoders": {"state": [...], "district": [...], "market": [...], "commodity": [...]},
//	    "crop_classes": [...],
//	    "suitability_model": {"type": "random_forest", ...},
//	    "price_model": {"type": "voting", ...},
//	    "avg_prices_by_crop": [{"crop": "Rice", "price": 2150.5}, ...]
//	  }
//	}
//
// The checksum is the SHA-256 of the payload bytes exactly as they appear in
// the file. Files without a checksum are accepted; files whose checksum does
// not match are rejected.
//
// avg_prices_by_crop is a list rather than an object because the order of the
// entries decides which price wins when a crop name only matches another
// entry by substring.
//
// Gzip is detected from the content, not the file name.
//
// # Versioned Store
//
// Store keeps several versions of named bundles in one directory:
//
//	filename: {name}_v{version}.json.gz
//
// Loading version 0 returns the latest. Prune keeps the newest N versions.
//
// Loading a single file:
//
//	bundle, meta, err := storage.LoadFile(ctx, "/models/crops.json.gz")
//	if err != nil {
//	    return fmt.Errorf("load bundle: %w", err)
//	}
//
// Importing into a store:
//
//	doc, err := storage.ReadFile(path)
//	...
//	meta, err := store.Save(ctx, "crops", 0, &doc.Payload, doc.Metadata)
//
// # Thread Safety
//
// Store methods are safe for concurrent use.
package storage
