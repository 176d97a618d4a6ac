package repositories

import (
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store on top of a BadgerDB instance. Each View or
// Update maps to exactly one badger transaction, so cascades commit atomically.
type BadgerStore struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

// NewBadgerStore opens (or creates) the database at path. An empty path
// creates an isolated temporary database that is removed on Close.
func NewBadgerStore(path string) (*BadgerStore, error) {
	isTest := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "modboard_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	store, err := OpenBadgerStore(opts)
	if err != nil {
		return nil, err
	}
	store.dbPath = path
	store.isTestDB = isTest
	return store, nil
}

// OpenBadgerStore opens a store with caller-supplied options, e.g. an
// in-memory database for tests.
func OpenBadgerStore(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db, dbPath: opts.Dir}, nil
}

// NewBadgerStoreFromDB wraps an already opened database. Close still closes it.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// DB exposes the underlying database for maintenance commands (backup, restore).
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

func (s *BadgerStore) View(fn func(tx Tx) error) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

// Update serialises writers so concurrent moderators resolve as last-write-wins
// instead of surfacing badger.ErrConflict.
func (s *BadgerStore) Update(fn func(tx Tx) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

func (s *BadgerStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.db.Close(); err != nil {
		return err
	}

	// Clean up test database
	if s.isTestDB {
		if err := os.RemoveAll(s.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}

// Clear drops every key, sequences included.
func (s *BadgerStore) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Posts() PostRepository       { return &BadgerPostRepository{txn: t.txn} }
func (t *badgerTx) Comments() CommentRepository { return &BadgerCommentRepository{txn: t.txn} }
func (t *badgerTx) Reports() ReportRepository   { return &BadgerReportRepository{txn: t.txn} }
func (t *badgerTx) Users() UserRepository       { return &BadgerUserRepository{txn: t.txn} }
