package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/stitchsync/internal/domain"
)

// Bucket names
var (
	bucketRuns      = []byte("runs")
	bucketArtifacts = []byte("artifacts")
)

// ManifestStore implements domain.Manifest using BoltDB.
type ManifestStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for reads (promoted on access); the only storage in memory-only mode
	cache map[string][]byte
}

// NewManifestStore opens the manifest at path. An empty path keeps
// everything in memory.
func NewManifestStore(path string) (*ManifestStore, error) {
	if path == "" {
		return &ManifestStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRuns, bucketArtifacts} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ManifestStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *ManifestStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ManifestStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ManifestStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// scanPrefix returns the raw values under prefix, in key order
func (s *ManifestStore) scanPrefix(bucket []byte, prefix string) [][]byte {
	var values [][]byte

	if s.db == nil {
		cachePrefix := string(bucket) + ":" + prefix
		s.mu.RLock()
		keys := make([]string, 0)
		for k := range s.cache {
			if strings.HasPrefix(k, cachePrefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			values = append(values, s.cache[k])
		}
		s.mu.RUnlock()
		return values
	}

	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, v := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			data := make([]byte, len(v))
			copy(data, v)
			values = append(values, data)
		}
		return nil
	})
	return values
}

// === Keys ===

func runKey(projectID, runID string) string {
	return fmt.Sprintf("project:%s:run:%s", projectID, runID)
}

func lastRunKey(projectID string) string {
	return fmt.Sprintf("project:%s:last", projectID)
}

func artifactKey(runID, screenID string) string {
	return fmt.Sprintf("run:%s:screen:%s", runID, screenID)
}

// === Runs ===

// BeginRun stores a run and marks it as the project's latest
func (s *ManifestStore) BeginRun(run domain.Run) error {
	if err := s.set(bucketRuns, runKey(run.ProjectID, run.ID), run); err != nil {
		return err
	}
	return s.set(bucketRuns, lastRunKey(run.ProjectID), run.ID)
}

// FinishRun overwrites a run with its final counts and outcome
func (s *ManifestStore) FinishRun(run domain.Run) error {
	return s.set(bucketRuns, runKey(run.ProjectID, run.ID), run)
}

// LastRun returns the most recently started run for a project
func (s *ManifestStore) LastRun(projectID string) (domain.Run, bool) {
	var runID string
	if !s.get(bucketRuns, lastRunKey(projectID), &runID) {
		return domain.Run{}, false
	}
	var run domain.Run
	ok := s.get(bucketRuns, runKey(projectID, runID), &run)
	return run, ok
}

// Runs returns every recorded run for a project, oldest first
func (s *ManifestStore) Runs(projectID string) []domain.Run {
	var runs []domain.Run
	for _, data := range s.scanPrefix(bucketRuns, fmt.Sprintf("project:%s:run:", projectID)) {
		var run domain.Run
		if json.Unmarshal(data, &run) == nil {
			runs = append(runs, run)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs
}

// === Artifacts ===

// RecordArtifact stores an artifact written during a run. A screen written
// twice in one run keeps the latest record.
func (s *ManifestStore) RecordArtifact(runID string, artifact domain.Artifact) error {
	return s.set(bucketArtifacts, artifactKey(runID, artifact.ScreenID), artifact)
}

// Artifacts returns the artifacts of a run in write order
func (s *ManifestStore) Artifacts(runID string) ([]domain.Artifact, bool) {
	values := s.scanPrefix(bucketArtifacts, fmt.Sprintf("run:%s:screen:", runID))
	if len(values) == 0 {
		return nil, false
	}

	artifacts := make([]domain.Artifact, 0, len(values))
	for _, data := range values {
		var a domain.Artifact
		if err := json.Unmarshal(data, &a); err != nil {
			continue
		}
		artifacts = append(artifacts, a)
	}
	sort.SliceStable(artifacts, func(i, j int) bool {
		return artifacts[i].WrittenAt.Before(artifacts[j].WrittenAt)
	})
	return artifacts, true
}
