// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/cropwise/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(StoreConfig{InMemory: true, Retention: time.Hour})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(id string, created time.Time) *Record {
	price := 2000.0
	return &Record{
		ID:                  id,
		RequestID:           "req-" + id,
		CreatedAt:           created,
		SoilType:            "Loamy",
		Season:              "Kharif",
		State:               "Punjab",
		SuitableCrop:        "Rice",
		MostProfitableCrop:  "Rice",
		MostProfitablePrice: &price,
		TopCrops:            []string{"Rice", "Maize", "Cotton"},
		PriceWeight:         0.6,
		SuitabilityWeight:   0.4,
	}
}

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Put(ctx, testRecord("a", created)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.RequestID != "req-a" || !got.CreatedAt.Equal(created) || len(got.TopCrops) != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if got.MostProfitablePrice == nil || *got.MostProfitablePrice != 2000 {
		t.Errorf("MostProfitablePrice = %v", got.MostProfitablePrice)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_PutDuplicateKeepsFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := testRecord("dup", now)
	second := testRecord("dup", now.Add(time.Second))
	second.SuitableCrop = "Maize"

	for _, rec := range []*Record{first, second} {
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	got, err := store.Get(ctx, "dup")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SuitableCrop != "Rice" {
		t.Errorf("SuitableCrop = %q, want first write", got.SuitableCrop)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestStore_PutInvalid(t *testing.T) {
	store := newTestStore(t)
	tests := []struct {
		name string
		rec  *Record
	}{
		{"nil", nil},
		{"no id", testRecord("", time.Now())},
		{"no timestamp", testRecord("x", time.Time{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Put(context.Background(), tt.rec); !errors.Is(err, ErrInvalid) {
				t.Errorf("Put() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestStore_Recent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order; Recent orders by creation time.
	for _, i := range []int{3, 1, 4, 0, 2} {
		if err := store.Put(ctx, testRecord(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{3, []string{"r4", "r3", "r2"}},
		{10, []string{"r4", "r3", "r2", "r1", "r0"}},
		{0, []string{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.limit), func(t *testing.T) {
			got, err := store.Recent(ctx, tt.limit)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(Recent()) = %d, want %d", len(got), len(tt.want))
			}
			for i, rec := range got {
				if rec.ID != tt.want[i] {
					t.Errorf("Recent()[%d] = %s, want %s", i, rec.ID, tt.want[i])
				}
			}
		})
	}

	if n, err := store.Count(ctx); err != nil || n != 5 {
		t.Errorf("Count() = (%d, %v), want (5, nil)", n, err)
	}
}

func TestStore_Closed(t *testing.T) {
	store, err := Open(StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, testRecord("a", time.Now())); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Put() error = %v, want ErrStoreClosed", err)
	}
	if _, err := store.Recent(ctx, 1); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Recent() error = %v, want ErrStoreClosed", err)
	}
	if err := store.RunGC(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("RunGC() error = %v, want ErrStoreClosed", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(StoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, testRecord("disk", time.Now().UTC())); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(StoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, err := reopened.Get(ctx, "disk"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}

	if _, err := Open(StoreConfig{}); err == nil {
		t.Error("Open() without path succeeded")
	}
}

func TestNewRecord(t *testing.T) {
	price := 1500.0
	res := &recommend.Result{
		SuitableCrop:        "Rice",
		MostProfitableCrop:  "Cotton",
		MostProfitablePrice: &price,
		Top:                 []recommend.RankedCrop{{Crop: "Cotton"}, {Crop: "Rice"}},
		Environment: recommend.EnvironmentEcho{
			SoilType: "Black",
			Season:   "Kharif",
			Location: recommend.Location{State: "Punjab", District: "Ludhiana", Market: "Khanna"},
		},
		Weights:  recommend.DefaultWeights(),
		Metadata: recommend.ResultMetadata{RequestID: "req-9"},
	}

	rec := NewRecord(res)
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("NewRecord() = %+v, want ID and timestamp", rec)
	}
	if rec.RequestID != "req-9" || rec.Market != "Khanna" || rec.MostProfitableCrop != "Cotton" {
		t.Errorf("NewRecord() = %+v", rec)
	}
	if len(rec.TopCrops) != 2 || rec.TopCrops[0] != "Cotton" {
		t.Errorf("TopCrops = %v", rec.TopCrops)
	}

	price = 9999
	if *rec.MostProfitablePrice != 1500 {
		t.Error("record shares the result's price pointer")
	}
}
