// Package store persists one schedule sheet per day as a JSON document.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/sheet"
)

// ErrSheetNotFound is returned when no sheet has been saved for a day.
var ErrSheetNotFound = errors.New("sheet not found")

const ext = ".json"

// FileStore keeps sheets under dir as YYYY-MM-DD.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("sheets directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sheets directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds the sheet for day.
func (s *FileStore) Path(day time.Time) string {
	return filepath.Join(s.dir, dateutil.FormatDate(day)+ext)
}

// Load reads and validates the sheet for day.
func (s *FileStore) Load(ctx context.Context, day time.Time) (*sheet.Sheet, error) {
	data, err := s.LoadRaw(ctx, day)
	if err != nil {
		return nil, err
	}
	sh, err := sheet.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(s.Path(day)), err)
	}
	return sh, nil
}

// LoadRaw returns the stored document for day without decoding it.
func (s *FileStore) LoadRaw(ctx context.Context, day time.Time) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(day))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, dateutil.FormatDate(day))
	}
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return data, nil
}

// Save writes the sheet for day. The file is either fully replaced or left
// untouched.
func (s *FileStore) Save(ctx context.Context, day time.Time, sh *sheet.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := sh.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding sheet: %w", err)
	}
	return writeFileAtomic(s.Path(day), data)
}

// Import validates an external sheet document and stores it for day.
func (s *FileStore) Import(ctx context.Context, day time.Time, data []byte) (*sheet.Sheet, error) {
	sh, err := sheet.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, day, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// Exists reports whether a sheet has been saved for day.
func (s *FileStore) Exists(day time.Time) bool {
	_, err := os.Stat(s.Path(day))
	return err == nil
}

// List returns the days that have a saved sheet, oldest first.
func (s *FileStore) List(ctx context.Context) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}

	var days []time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		day, err := time.Parse(dateutil.Layout, strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// Delete removes the sheet for day.
func (s *FileStore) Delete(ctx context.Context, day time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path(day))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, dateutil.FormatDate(day))
	}
	return err
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sheet-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing sheet: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing sheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing sheet: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing sheet: %w", err)
	}
	return nil
}
