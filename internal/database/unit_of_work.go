package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrUnitOfWorkDone is returned when Commit is called on a finished unit.
	ErrUnitOfWorkDone = errors.New("unit of work already finished")
	// ErrNestedUnitOfWork is returned when Begin is called with a context that already carries a unit.
	ErrNestedUnitOfWork = errors.New("unit of work already active in context")
)

type txKey struct{}

// Coordinator opens units of work on a single database handle.
type Coordinator struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCoordinator(db *gorm.DB, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{db: db, log: log}
}

// UnitOfWork is one open transaction. All repository calls made with Context()
// run on the same connection and are committed or rolled back together.
type UnitOfWork struct {
	tx   *gorm.DB
	ctx  context.Context
	log  *zap.Logger
	mu   sync.Mutex
	done bool
}

// Begin opens a transaction. Cancelling ctx afterwards does not abort it;
// only Commit or Rollback end the unit.
func (c *Coordinator) Begin(ctx context.Context) (*UnitOfWork, error) {
	return c.BeginTx(ctx, nil)
}

// BeginTx is Begin with explicit transaction options. nil uses the driver default.
func (c *Coordinator) BeginTx(ctx context.Context, opts *sql.TxOptions) (*UnitOfWork, error) {
	if InUnitOfWork(ctx) {
		return nil, ErrNestedUnitOfWork
	}

	base := context.WithoutCancel(ctx)
	tx := c.db.WithContext(base).Begin(opts)
	if tx.Error != nil {
		c.log.Error("failed to begin transaction", zap.Error(tx.Error))
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	return &UnitOfWork{
		tx:  tx,
		ctx: context.WithValue(base, txKey{}, tx),
		log: c.log,
	}, nil
}

// Context carries the transaction to repositories.
func (u *UnitOfWork) Context() context.Context {
	return u.ctx
}

func (u *UnitOfWork) Commit() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.done {
		return ErrUnitOfWorkDone
	}
	u.done = true

	if err := u.tx.Commit().Error; err != nil {
		u.log.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the unit. It is a no-op once the unit has finished.
func (u *UnitOfWork) Rollback() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.done {
		return
	}
	u.done = true

	if err := u.tx.Rollback().Error; err != nil {
		u.log.Error("failed to rollback transaction", zap.Error(err))
	}
}

// Run executes fn inside a new unit of work. The unit is committed when fn
// returns nil and rolled back on error or panic.
func (c *Coordinator) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.run(ctx, nil, fn)
}

// RunSnapshot is Run for multi-statement reads: every statement in fn sees the
// same committed state. Postgres gets REPEATABLE READ; SQLite transactions are
// already serializable.
func (c *Coordinator) RunSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.run(ctx, c.snapshotOptions(), fn)
}

func (c *Coordinator) snapshotOptions() *sql.TxOptions {
	if c.db.Dialector != nil && c.db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	uow, err := c.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			uow.Rollback()
			panic(p)
		}
		if err != nil {
			uow.Rollback()
		}
	}()

	if err = fn(uow.Context()); err != nil {
		return err
	}
	return uow.Commit()
}

// Conn returns the transaction carried by ctx, or db bound to ctx when there is none.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// InUnitOfWork reports whether ctx carries an open transaction.
func InUnitOfWork(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
