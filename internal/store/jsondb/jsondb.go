// internal/store/jsondb/jsondb.go
package jsondb

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/models"
)

// DB stores analysis records as JSON lines in per-day files under a
// base directory. Appends take a per-file lock so concurrent handlers
// never interleave partial lines.
type DB struct {
	baseDir string

	fileLocks sync.Map // path -> *sync.Mutex
}

// Open prepares the base directory.
func Open(baseDir string) (*DB, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, apperrors.NewPersistenceError("create results directory", err)
	}
	return &DB{baseDir: baseDir}, nil
}

func (d *DB) getFileLock(path string) *sync.Mutex {
	value, _ := d.fileLocks.LoadOrStore(path, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func (d *DB) dayFile(t time.Time) string {
	return filepath.Join(d.baseDir, t.UTC().Format("2006-01-02")+".jsonl")
}

// Append writes one record as a single JSON line.
func (d *DB) Append(ctx context.Context, record models.AnalysisRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewPersistenceError("marshal record", err)
	}

	path := d.dayFile(record.CreatedAt)
	lock := d.getFileLock(path)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.NewPersistenceError("open results file", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return apperrors.NewPersistenceError("append record", err)
	}
	return f.Sync()
}

// Recent returns the newest records across day files, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	paths, err := filepath.Glob(filepath.Join(d.baseDir, "*.jsonl"))
	if err != nil {
		return nil, apperrors.NewPersistenceError("list results files", err)
	}
	// Day files sort lexically by date; walk newest days first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	records := make([]models.AnalysisRecord, 0, limit)
	for _, path := range paths {
		dayRecords, err := d.readDay(path)
		if err != nil {
			return nil, err
		}
		// Within a day, later appends come last.
		for i := len(dayRecords) - 1; i >= 0; i-- {
			records = append(records, dayRecords[i])
			if len(records) == limit {
				return records, nil
			}
		}
	}

	return records, nil
}

func (d *DB) readDay(path string) ([]models.AnalysisRecord, error) {
	lock := d.getFileLock(path)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewPersistenceError("open results file", err)
	}
	defer f.Close()

	var records []models.AnalysisRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var record models.AnalysisRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			// A torn line at the tail is skipped, not fatal.
			continue
		}
		records = append(records, record)
	}
	return records, scanner.Err()
}

// Close is a no-op; files are opened per append.
func (d *DB) Close() error {
	return nil
}
