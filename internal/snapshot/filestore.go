package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/dm/esaudit-go/internal/model"
)

// fileStampRe extracts the unix timestamp embedded in persisted file names,
// e.g. nodes_1718000000.json.
var fileStampRe = regexp.MustCompile(`_(\d+)\.json$`)

// FileStore persists per-cycle node and index metrics as timestamped JSON
// files so that cluster state around an incident can be inspected after the
// fact. Writes are rate limited; retention is enforced by Purge.
type FileStore struct {
	dir       string
	interval  time.Duration
	retention time.Duration
	lastWrite time.Time
	now       func() time.Time
}

// NewFileStore returns a store rooted at dir that writes at most once per
// interval and considers files older than retention purgeable.
func NewFileStore(dir string, interval, retention time.Duration) *FileStore {
	return &FileStore{
		dir:       dir,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// MaybeWrite persists the given metrics unless the previous write happened
// less than the store interval ago. It reports whether files were written.
func (s *FileStore) MaybeWrite(nodes []model.NodeMetric, indices []model.IndexMetric) (bool, error) {
	now := s.now()
	if !s.lastWrite.IsZero() && now.Sub(s.lastWrite) <= s.interval {
		return false, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("MaybeWrite: %w", err)
	}

	ts := now.Unix()
	if err := s.writeJSON(fmt.Sprintf("nodes_%d.json", ts), nodes); err != nil {
		return false, err
	}
	if err := s.writeJSON(fmt.Sprintf("indices_%d.json", ts), indices); err != nil {
		return false, err
	}
	s.lastWrite = now
	return true, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("MaybeWrite: marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("MaybeWrite: %w", err)
	}
	return nil
}

// Purge removes persisted snapshot files whose embedded timestamp is older
// than the retention window and returns how many were removed. Files whose
// names do not carry a parsable timestamp are left alone.
func (s *FileStore) Purge() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("Purge: %w", err)
	}

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileStampRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		ts, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if time.Unix(ts, 0).After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return removed, fmt.Errorf("Purge: %w", err)
		}
		removed++
	}
	return removed, nil
}
