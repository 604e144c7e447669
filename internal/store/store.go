// Package store reads and writes the JSON file backing the configuration.
// Loading never fails: a missing file is created empty and unreadable or
// malformed content is treated as an empty configuration.
package store

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/logging"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/util/files"
)

// BackupSuffix is appended to the store path when the previous file is kept
const BackupSuffix = ".backup"

// emptyDocument is written when the store does not exist yet
const emptyDocument = "{}"

var writeAtomic = files.WriteAtomic

// Store is the backing store file
type Store struct {
	// Path is the location of the JSON file
	Path string
	// Backup copies the previous file to Path+BackupSuffix on every save
	Backup bool

	log    *zap.Logger
	hasher *FileHasher
}

// New creates a store for path
func New(path string, backup bool, log *zap.Logger) *Store {
	return &Store{
		Path:   path,
		Backup: backup,
		log:    logging.OrNop(log),
		hasher: NewFileHasher(),
	}
}

// Exists reports whether the store file is present
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && !info.IsDir()
}

// Load returns the stored tree. A missing file is created holding an empty
// object. Unreadable, empty or malformed content yields an empty tree; the
// cause is logged.
func (s *Store) Load() *rawtree.OrderedMap {
	m, err := s.load()
	if err != nil {
		if te, ok := toolerrors.As(err); ok && te.Severity == toolerrors.SeverityWarning {
			s.log.Error("configuration store is malformed", zap.String("path", s.Path), zap.Error(err))
		} else {
			s.log.Error("failed to load configuration store", zap.String("path", s.Path), zap.Error(err))
		}
		return rawtree.NewMap()
	}
	return m
}

func (s *Store) load() (*rawtree.OrderedMap, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.create(); err != nil {
			return nil, err
		}
		s.log.Info("created configuration store", zap.String("path", s.Path))
		return rawtree.NewMap(), nil
	}
	if err != nil {
		return nil, toolerrors.NewStoreRead(s.Path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.log.Debug("configuration store is empty", zap.String("path", s.Path))
		return rawtree.NewMap(), nil
	}

	m, err := rawtree.ParseMap(data)
	if err != nil {
		return nil, toolerrors.NewStoreMalformed(s.Path, err)
	}
	return m, nil
}

func (s *Store) create() error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return toolerrors.NewStoreCreate(s.Path, err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(emptyDocument+"\n"), 0o644); err != nil {
		return toolerrors.NewStoreCreate(s.Path, err)
	}
	return nil
}

// Save writes m pretty-printed with two-space indentation. With Backup set
// the previous content is first copied to Path+BackupSuffix. Both files are
// replaced atomically, so a failed save leaves the previous store in place.
func (s *Store) Save(m *rawtree.OrderedMap) error {
	data, err := rawtree.MarshalMap(m, true)
	if err != nil {
		return toolerrors.NewStoreWrite(s.Path, err)
	}

	if s.Backup && s.Exists() {
		if err := s.backup(); err != nil {
			return toolerrors.NewStoreBackup(s.Path, err)
		}
	}

	if err := writeAtomic(s.Path, data, 0o644); err != nil {
		return toolerrors.NewStoreWrite(s.Path, err)
	}
	s.log.Debug("saved configuration store", zap.String("path", s.Path), zap.Int("keys", m.Len()))
	return nil
}

func (s *Store) backup() error {
	old, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}
	backup := s.Path + BackupSuffix
	if err := writeAtomic(backup, old, 0o644); err != nil {
		return err
	}
	s.log.Debug("backed up configuration store", zap.String("backup", backup))
	return nil
}

// Hash returns the SHA-256 of the store file contents
func (s *Store) Hash() (string, error) {
	return s.hasher.HashFile(s.Path)
}
