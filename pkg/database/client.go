package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

type logger interface {
	Warn(context.Context, string, ...slog.Attr)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=client_options.gen.go -from-struct=Options
type Options struct {
	path string `option:"mandatory" validate:"required"`

	retry         bool `default:"true"`
	retryAttempts uint `default:"3" validate:"min=1,max=10"`

	logger logger

	busyTimeout time.Duration `default:"5s"`
	// SQLite serializes writers; one connection keeps the handle single-owner.
	maxOpenConns int `default:"1" validate:"min=1,max=20"`
}

// NewSQLite opens (creating if needed) the database file and checks it is usable.
func NewSQLite(ctx context.Context, opts Options) (*sql.DB, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options for sqlite: %v", err)
	}

	if opts.logger == nil {
		opts.logger = noopLogger{}
	}

	db, err := sql.Open(driverName, dsn(opts.path, opts.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %v", err)
	}

	db.SetMaxOpenConns(opts.maxOpenConns)
	db.SetMaxIdleConns(opts.maxOpenConns)

	if !opts.retry {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlite: %v", err)
		}
		return db, nil
	}

	if err := retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Delay(time.Millisecond*300),
		retry.Attempts(opts.retryAttempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			opts.logger.Warn(
				ctx,
				"failed ping to database",
				slog.Any("err", err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping to database: %v", err)
	}

	return db, nil
}

// uriPathEscaper keeps the characters SQLite's URI parser reserves out of
// the file name; everything else is passed through as is.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func dsn(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")

	return "file:" + uriPathEscaper.Replace(path) + "?" + q.Encode()
}

type noopLogger struct{}

func (n noopLogger) Warn(context.Context, string, ...slog.Attr) {}
