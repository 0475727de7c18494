// Package series provides file-based storage for historical scan
// results. The stored series feed trend forecasting and cross-scan
// comparison; records are append-only and never mutated after save.
//
// Data is stored as an indexed JSON file for portability. For
// high-volume production use, consider upgrading to a database backend.
package series

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/complyscan/complyscan/pkg/forecast"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// ErrNotFound indicates the requested scan record does not exist.
var ErrNotFound = errors.New("series: scan not found")

// Store manages historical scan data using JSON file storage.
type Store struct {
	mu       sync.RWMutex
	basePath string
	index    *storeIndex
}

// storeIndex tracks all stored scans for quick lookup.
type storeIndex struct {
	Scans map[string]*ScanRecord `json:"scans"`
}

// ScanRecord is one stored scan result.
type ScanRecord struct {
	// ID is the unique scan identifier, assigned on save.
	ID string `json:"id"`

	// OrganizationID keys the series the record belongs to.
	OrganizationID string `json:"organization_id"`

	// Timestamp is when the scan completed.
	Timestamp time.Time `json:"timestamp"`

	// Score is the aggregated compliance score.
	Score float64 `json:"score"`

	// Status is the label derived from Score.
	Status score.Status `json:"status"`

	// RiskCounts is the normalized severity breakdown.
	RiskCounts taxonomy.RiskCount `json:"risk_counts"`

	// FindingCount is the total findings across all scanners.
	FindingCount int `json:"finding_count"`

	// Scanners lists the sources that contributed findings.
	Scanners []string `json:"scanners,omitempty"`

	// Tags are user-defined labels.
	Tags []string `json:"tags,omitempty"`

	// Notes are optional scan notes.
	Notes string `json:"notes,omitempty"`
}

// ComparisonResult is the delta between two scans.
type ComparisonResult struct {
	BaseID           string         `json:"base_id"`
	CompareID        string         `json:"compare_id"`
	BaseTimestamp    time.Time      `json:"base_timestamp"`
	CompareTimestamp time.Time      `json:"compare_timestamp"`
	ScoreDelta       float64        `json:"score_delta"`
	FindingDelta     int            `json:"finding_delta"`
	LevelDeltas      map[string]int `json:"level_deltas"`
	Improved         bool           `json:"improved"`
}

// Stats summarizes the store contents.
type Stats struct {
	TotalScans          int       `json:"total_scans"`
	UniqueOrganizations int       `json:"unique_organizations"`
	OldestScan          time.Time `json:"oldest_scan"`
	NewestScan          time.Time `json:"newest_scan"`
	StorageSizeBytes    int64     `json:"storage_size_bytes"`
}

// NewStore creates a store rooted at the given directory.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		basePath: basePath,
		index: &storeIndex{
			Scans: make(map[string]*ScanRecord),
		},
	}

	if err := store.loadIndex(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return store, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.basePath, "index.json")
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s.index)
}

// saveIndex persists the index atomically. Writes go to a temp file
// first, then rename, so a crash never corrupts the index.
func (s *Store) saveIndex() error {
	data, err := json.Marshal(s.index, jsontext.WithIndent("  "))
	if err != nil {
		return err
	}

	tmpPath := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.indexPath()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Save appends a scan record. A missing ID gets a generated UUID; a
// zero timestamp gets the current time. The stored record's ID is
// returned.
func (s *Store) Save(record *ScanRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyRecord(record)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	s.index.Scans[stored.ID] = stored
	if err := s.saveIndex(); err != nil {
		delete(s.index.Scans, stored.ID)
		return "", err
	}
	return stored.ID, nil
}

// copyRecord makes a deep copy so callers and the index never share
// mutable state.
func copyRecord(r *ScanRecord) *ScanRecord {
	c := *r
	if r.RiskCounts != nil {
		c.RiskCounts = r.RiskCounts.Clone()
	}
	if r.Scanners != nil {
		c.Scanners = append([]string(nil), r.Scanners...)
	}
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	return &c
}

// Get retrieves a scan record by ID.
func (s *Store) Get(id string) (*ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.index.Scans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(record), nil
}

// List retrieves an organization's scans within a time range, newest
// first. An empty organization matches all.
func (s *Store) List(organizationID string, since, until time.Time, limit int) ([]*ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*ScanRecord
	for _, record := range s.index.Scans {
		if organizationID != "" && record.OrganizationID != organizationID {
			continue
		}
		if record.Timestamp.Before(since) || (!until.IsZero() && record.Timestamp.After(until)) {
			continue
		}
		records = append(records, copyRecord(record))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// Series assembles the forecast input for one organization over the
// lookback window ending now. The returned snapshot is independent of
// the store; appends after the call do not affect it.
func (s *Store) Series(organizationID string, lookback time.Duration) (forecast.Series, error) {
	since := time.Now().UTC().Add(-lookback)
	records, err := s.List(organizationID, since, time.Time{}, 0)
	if err != nil {
		return forecast.Series{}, err
	}

	out := forecast.Series{OrganizationID: organizationID}
	for _, r := range records {
		out.Points = append(out.Points, forecast.Point{
			Timestamp:    r.Timestamp,
			Score:        r.Score,
			FindingCount: r.FindingCount,
			RiskCounts:   r.RiskCounts,
		})
	}

	// List returns newest first; forecasting wants chronological order.
	sort.Slice(out.Points, func(i, j int) bool {
		return out.Points[i].Timestamp.Before(out.Points[j].Timestamp)
	})

	return out, nil
}

// Latest returns the most recent scan for an organization.
func (s *Store) Latest(organizationID string) (*ScanRecord, error) {
	records, err := s.List(organizationID, time.Time{}, time.Time{}, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Compare returns the delta between two stored scans.
func (s *Store) Compare(baseID, compareID string) (*ComparisonResult, error) {
	base, err := s.Get(baseID)
	if err != nil {
		return nil, err
	}
	compare, err := s.Get(compareID)
	if err != nil {
		return nil, err
	}

	result := &ComparisonResult{
		BaseID:           baseID,
		CompareID:        compareID,
		BaseTimestamp:    base.Timestamp,
		CompareTimestamp: compare.Timestamp,
		ScoreDelta:       compare.Score - base.Score,
		FindingDelta:     compare.FindingCount - base.FindingCount,
		LevelDeltas:      make(map[string]int),
	}

	for _, level := range taxonomy.Levels() {
		delta := compare.RiskCounts[level] - base.RiskCounts[level]
		if delta != 0 {
			result.LevelDeltas[string(level)] = delta
		}
	}

	result.Improved = result.ScoreDelta > 0 && result.FindingDelta <= 0

	return result, nil
}

// Prune removes records older than the retention window and returns
// how many were dropped.
func (s *Store) Prune(olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	count := 0

	for id, record := range s.index.Scans {
		if record.Timestamp.Before(cutoff) {
			delete(s.index.Scans, id)
			count++
		}
	}

	if count > 0 {
		if err := s.saveIndex(); err != nil {
			return count, err
		}
	}

	return count, nil
}

// StoreStats returns storage statistics.
func (s *Store) StoreStats() (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		TotalScans: len(s.index.Scans),
	}

	orgs := make(map[string]bool)
	for _, record := range s.index.Scans {
		orgs[record.OrganizationID] = true
		if stats.OldestScan.IsZero() || record.Timestamp.Before(stats.OldestScan) {
			stats.OldestScan = record.Timestamp
		}
		if record.Timestamp.After(stats.NewestScan) {
			stats.NewestScan = record.Timestamp
		}
	}
	stats.UniqueOrganizations = len(orgs)

	info, err := os.Stat(s.indexPath())
	if err == nil {
		stats.StorageSizeBytes = info.Size()
	}

	return stats, nil
}

// Close closes the store (no-op for file-based storage).
func (s *Store) Close() error {
	return nil
}
