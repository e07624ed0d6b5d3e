package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/evgeniy-krivenko/memos/internal/entity"
	"github.com/evgeniy-krivenko/memos/internal/repository/migrations"
	"github.com/evgeniy-krivenko/memos/pkg/database"
	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

// Repo is the memo store. It does not own the database handle; whoever
// passed it in closes it.
type Repo struct {
	db          *database.Database
	now         func() time.Time
	initialized atomic.Bool
}

func New(db *database.Database) *Repo {
	return &Repo{
		db:  db,
		now: time.Now,
	}
}

// Init creates the memos schema. It must complete before any other call.
// Calling it again after a success does nothing.
func (r *Repo) Init(ctx context.Context) error {
	if r.initialized.Load() {
		return nil
	}

	if err := r.db.Migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("%w: create schema: %w", entity.ErrStorageInit, err)
	}

	r.initialized.Store(true)

	slogx.Debug(ctx, "memo store initialized")

	return nil
}

func (r *Repo) checkInit(kind error) error {
	if !r.initialized.Load() {
		return fmt.Errorf("%w: %w", kind, entity.ErrStoreNotInitialized)
	}

	return nil
}
