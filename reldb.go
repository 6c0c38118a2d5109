// Package reldb ties the pieces together for embedded use: an
// in-memory relational database, its SQL execution engine and optional
// JSON-file persistence.
package reldb

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"reldb/internal/engine"
	"reldb/internal/sql/executor"
	"reldb/internal/storage"
)

// Options configures Open. Zero values mean an anonymous, purely
// in-memory database with no logging.
type Options struct {
	// Name of the database; defaults to "reldb".
	Name string

	// DataFile enables snapshot persistence when non-empty.
	DataFile string

	// Fs is the filesystem persistence writes to; defaults to the OS
	// filesystem.
	Fs afero.Fs

	// Logger receives restore warnings; defaults to a nop logger.
	Logger *zap.SugaredLogger
}

// DB is an embedded database handle.
type DB struct {
	db    *engine.Database
	ex    *executor.Engine
	store *storage.MemoryStore
	log   *zap.SugaredLogger
}

// Open creates a database and, when a data file is configured and
// holds a snapshot, restores it.
func Open(opts Options) (*DB, error) {
	if opts.Name == "" {
		opts.Name = "reldb"
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	db := engine.NewDatabase(opts.Name)
	d := &DB{
		db:  db,
		ex:  executor.New(db),
		log: opts.Logger,
	}

	if opts.DataFile != "" {
		store, err := storage.NewMemoryStore(opts.Fs, opts.DataFile)
		if err != nil {
			return nil, err
		}
		d.store = store
		if storage.SnapshotExists(store) {
			if err := storage.LoadDatabase(store, db, opts.Logger); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// Exec parses and runs one SQL statement.
func (d *DB) Exec(sql string) *executor.Result {
	return d.ex.Execute(sql)
}

// Database exposes the table registry for direct engine calls.
func (d *DB) Database() *engine.Database { return d.db }

// Executor exposes the SQL execution engine.
func (d *DB) Executor() *executor.Engine { return d.ex }

// Persistent reports whether the handle was opened with a data file.
func (d *DB) Persistent() bool { return d.store != nil }

// Save snapshots every table to the configured data file. It is a
// no-op without one.
func (d *DB) Save() error {
	if d.store == nil {
		return nil
	}
	return storage.SaveDatabase(d.store, d.db)
}
