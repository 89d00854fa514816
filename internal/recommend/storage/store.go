// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/cropwise/internal/recommend"
)

// File name suffixes recognized by the store.
const (
	suffixGzip  = ".json.gz"
	suffixPlain = ".json"
)

// Store manages versioned bundles in a directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per bundle name
	versions map[string]int
}

// NewStore creates a new bundle store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	files, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scan existing bundles: %w", err)
	}
	for _, f := range files {
		if f.version > s.versions[f.name] {
			s.versions[f.name] = f.version
		}
	}

	return s, nil
}

type storedFile struct {
	name    string
	version int
	path    string
}

// scan lists bundle files in the store directory.
func (s *Store) scan() ([]storedFile, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	var files []storedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := trimBundleSuffix(entry.Name())
		if !ok {
			continue
		}
		name, version := parseBundleFilename(base)
		if name == "" {
			continue
		}
		files = append(files, storedFile{name: name, version: version, path: filepath.Join(s.baseDir, entry.Name())})
	}
	return files, nil
}

func trimBundleSuffix(filename string) (string, bool) {
	switch {
	case strings.HasSuffix(filename, suffixGzip):
		return strings.TrimSuffix(filename, suffixGzip), true
	case strings.HasSuffix(filename, suffixPlain):
		return strings.TrimSuffix(filename, suffixPlain), true
	default:
		return "", false
	}
}

// parseBundleFilename extracts name and version from a base name like "crops_v3".
func parseBundleFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0
	}
	return base[:idx], version
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/\\") && name != "." && name != ".."
}

// Save stores a bundle under name. Version 0 assigns the next version.
// The payload is validated before anything is written.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, p *Payload, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validName(name) {
		return nil, fmt.Errorf("invalid bundle name %q", name)
	}
	if _, err := p.Bundle(); err != nil {
		return nil, fmt.Errorf("refusing to store invalid bundle: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		version = s.versions[name] + 1
	}
	meta.Name = name
	meta.Version = version
	meta.SavedAt = time.Time{}

	written, err := WriteFile(s.bundlePath(name, version), p, meta, true)
	if err != nil {
		return nil, err
	}

	if version > s.versions[name] {
		s.versions[name] = version
	}
	return &written, nil
}

// Load reads a bundle by name and version and builds the serving bundle.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int) (*recommend.Bundle, *Metadata, error) {
	doc, err := s.Read(ctx, name, version)
	if err != nil {
		return nil, nil, err
	}
	b, err := doc.Payload.Bundle()
	if err != nil {
		return nil, nil, fmt.Errorf("build bundle %s v%d: %w", name, doc.Metadata.Version, err)
	}
	return b, &doc.Metadata, nil
}

// Read decodes a stored bundle document without building it.
func (s *Store) Read(ctx context.Context, name string, version int) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("no bundle found for %s: %w", name, os.ErrNotExist)
		}
	}

	return ReadFile(s.bundlePath(name, version))
}

// GetLatestVersion returns the latest version number for a bundle.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// List returns metadata for every stored bundle version, ordered by name
// then version. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].name != files[j].name {
			return files[i].name < files[j].name
		}
		return files[i].version < files[j].version
	})

	out := make([]Metadata, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ReadFile(f.path)
		if err != nil {
			continue
		}
		meta := doc.Metadata
		meta.Name, meta.Version = f.name, f.version
		out = append(out, meta)
	}
	return out, nil
}

// Delete removes a specific bundle version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.bundlePath(name, version)); err != nil {
		return fmt.Errorf("delete bundle: %w", err)
	}
	if s.versions[name] == version {
		return s.refreshLatest(name)
	}
	return nil
}

// Prune removes old bundle versions, keeping only the latest N versions.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if keepVersions < 1 {
		keepVersions = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.scan()
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	var versions []storedFile
	for _, f := range files {
		if f.name == name {
			versions = append(versions, f)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].version > versions[j].version })

	removed := 0
	for i := keepVersions; i < len(versions); i++ {
		if err := os.Remove(versions[i].path); err == nil {
			removed++
		}
	}
	return removed, s.refreshLatest(name)
}

// refreshLatest recomputes the latest version of name. Callers hold mu.
func (s *Store) refreshLatest(name string) error {
	files, err := s.scan()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	delete(s.versions, name)
	for _, f := range files {
		if f.name == name && f.version > s.versions[name] {
			s.versions[name] = f.version
		}
	}
	return nil
}

// bundlePath returns the file path for a bundle version.
func (s *Store) bundlePath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, suffixGzip))
}
