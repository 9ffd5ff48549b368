// store.go - CSV-backed record store, one per entity type
//
// Every write replaces the whole file. The primary file is mirrored
// byte-for-byte to a public path after each successful write.

package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go-training-backend/csvcodec"
	"go-training-backend/logger"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

var (
	ErrRead      = errors.New("read csv store")
	ErrDecode    = errors.New("decode csv store")
	ErrWrite     = errors.New("write csv store")
	ErrNormalize = errors.New("normalize record")
	ErrNotFound  = errors.New("record not found")
)

const lockRetryDelay = 20 * time.Millisecond

// NormalizeFunc canonicalizes a record before it is written.
type NormalizeFunc func(csvcodec.Record) (csvcodec.Record, error)

// StoreOptions configures a Store.
type StoreOptions struct {
	Name       string   // entity name used in logs
	Path       string   // primary CSV file
	PublicPath string   // mirror kept identical to Path; empty disables mirroring
	Columns    []string // fixed header
	Normalize  NormalizeFunc
	Fs         afero.Fs      // defaults to the OS filesystem
	LockPath   string        // OS lock file guarding Path; empty disables cross-process locking
	Logger     logger.Logger // defaults to a discarding logger
}

// Store owns one CSV file and its public mirror.
type Store struct {
	opts  StoreOptions
	fs    afero.Fs
	log   logger.Logger
	mu    sync.Mutex
	flock *flock.Flock
}

// NewStore builds a Store. Nothing touches the filesystem until the first call.
func NewStore(opts StoreOptions) *Store {
	s := &Store{opts: opts, fs: opts.Fs, log: opts.Logger}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.opts.Normalize == nil {
		s.opts.Normalize = func(r csvcodec.Record) (csvcodec.Record, error) { return r, nil }
	}
	if opts.LockPath != "" {
		s.flock = flock.New(opts.LockPath)
	}
	return s
}

// Path returns the primary file path.
func (s *Store) Path() string { return s.opts.Path }

// PublicPath returns the mirror path.
func (s *Store) PublicPath() string { return s.opts.PublicPath }

// Columns returns the fixed header.
func (s *Store) Columns() []string { return s.opts.Columns }

// LoadAll returns every record in file order. A missing file is first
// created with just the header row.
func (s *Store) LoadAll(ctx context.Context) ([]csvcodec.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureFile(ctx); err != nil {
		return nil, err
	}

	unlock, err := s.lockShared(ctx)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, s.opts.Path)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.opts.Path, err)
	}

	records, err := csvcodec.Decode(string(data), s.opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, s.opts.Path, err)
	}
	return records, nil
}

// Get scans the collection for the record whose id column equals id.
func (s *Store) Get(ctx context.Context, id string) (csvcodec.Record, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec["id"] == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, s.opts.Name, id)
}

// ReplaceAll normalizes records and overwrites the file and its mirror with them.
// Callers' records are not modified.
func (s *Store) ReplaceAll(ctx context.Context, records []csvcodec.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalized := make([]csvcodec.Record, 0, len(records))
	for i, rec := range records {
		out, err := s.opts.Normalize(rec.Clone())
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrNormalize, s.opts.Name, i, err)
		}
		normalized = append(normalized, out)
	}

	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.write(normalized)
}

// write encodes records and stores them in the primary file and its mirror.
// The caller holds the write lock.
func (s *Store) write(normalized []csvcodec.Record) error {
	text, err := csvcodec.Encode(normalized, s.opts.Columns)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.opts.Path, err)
	}
	data := []byte(text)

	if err := writeFileAtomic(s.fs, s.opts.Path, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.opts.Path, err)
	}
	if s.mirrors() {
		if err := writeFileAtomic(s.fs, s.opts.PublicPath, data); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, s.opts.PublicPath, err)
		}
	}

	s.log.Debug("csv store written", "store", s.opts.Name, "records", len(normalized), "path", s.opts.Path)
	return nil
}

// ensureFile writes a header-only collection when the primary file is missing.
// The existence check runs under the write lock so a concurrent ReplaceAll
// is never overwritten by an empty collection.
func (s *Store) ensureFile(ctx context.Context) error {
	exists, err := afero.Exists(s.fs, s.opts.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRead, s.opts.Path, err)
	}
	if exists {
		return nil
	}

	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if exists, err = afero.Exists(s.fs, s.opts.Path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRead, s.opts.Path, err)
	}
	if exists {
		return nil
	}
	s.log.Info("csv file does not exist, creating empty file", "store", s.opts.Name, "path", s.opts.Path)
	return s.write(nil)
}

func (s *Store) mirrors() bool {
	return s.opts.PublicPath != "" && filepath.Clean(s.opts.PublicPath) != filepath.Clean(s.opts.Path)
}

// lockShared serializes in-process access and takes a shared OS lock so
// other processes cannot swap the file mid-read.
func (s *Store) lockShared(ctx context.Context) (func(), error) {
	s.mu.Lock()
	if s.flock == nil {
		return s.mu.Unlock, nil
	}
	if _, err := s.flock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: lock %s: %v", ErrRead, s.opts.LockPath, err)
	}
	return func() {
		if err := s.flock.Unlock(); err != nil {
			s.log.Warn("unlock failed", "path", s.opts.LockPath, "err", err)
		}
		s.mu.Unlock()
	}, nil
}

func (s *Store) lockExclusive(ctx context.Context) (func(), error) {
	s.mu.Lock()
	if s.flock == nil {
		return s.mu.Unlock, nil
	}
	if _, err := s.flock.TryLockContext(ctx, lockRetryDelay); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: lock %s: %v", ErrWrite, s.opts.LockPath, err)
	}
	return func() {
		if err := s.flock.Unlock(); err != nil {
			s.log.Warn("unlock failed", "path", s.opts.LockPath, "err", err)
		}
		s.mu.Unlock()
	}, nil
}

// writeFileAtomic writes data next to path and renames it into place,
// so readers see either the old or the new file, never a partial one.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := fs.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
