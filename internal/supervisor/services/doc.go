// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package services adapts server components to suture.Service.

Each wrapper translates a component's lifecycle into Serve(ctx) error and
identifies itself through String for supervisor logs:

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - BundleLoaderService: loads the model bundle, retrying until it succeeds,
    then publishes it once and idles
  - HistoryRecorderService: runs the Watermill router that persists
    prediction history
  - HistoryGCService: periodic BadgerDB value log GC
*/
package services
