// Package pg is the PostgreSQL implementation of the board store. It offers
// the same method set as the in-memory store so the services cannot tell
// them apart.
package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brainboard/brainboard/shared/config"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	sharedpg "github.com/brainboard/brainboard/shared/storage/pg"
)

//go:embed migrations/init.sql
var initSQL string

const queryTimeout = 5 * time.Second

var (
	errUserNotFound  = &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	errBoardNotFound = &internal_errors.ErrorWithStatusCode{Message: "Board not found", StatusCode: http.StatusNotFound}
	errCardNotFound  = &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	errShareNotFound = &internal_errors.ErrorWithStatusCode{Message: "Invalid or expired share link", StatusCode: http.StatusNotFound}
	errGrantNotFound = &internal_errors.ErrorWithStatusCode{Message: "No access entry found", StatusCode: http.StatusNotFound}
	errEmailTaken    = &internal_errors.ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusConflict}
	errTokenTaken    = &internal_errors.ErrorWithStatusCode{Message: "Share token already exists", StatusCode: http.StatusConflict}
)

type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

func New(ctx context.Context, cfg config.Pg) (*Storage, error) {
	log := logger.Component("pg")
	log.Info("connecting to postgres", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, sharedpg.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres")
	return &Storage{db: db, log: log}, nil
}

// Migrate creates the schema. Every statement is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// notFound maps sql.ErrNoRows to the given status error and wraps anything else.
func notFound(err error, missing error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return missing
	}
	return fmt.Errorf("%s: %w", op, err)
}

// boardExists reports errBoardNotFound for an unknown board.
func boardExists(ctx context.Context, q sharedpg.Querier, id int64) error {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check board: %w", err)
	}
	if !exists {
		return errBoardNotFound
	}
	return nil
}

// affectedOne turns the result of a single-row statement into missing when
// no row matched.
func affectedOne(res sql.Result, err error, missing error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func (s *Storage) logQueryError(op string, err error) {
	s.log.Error("query failed", "op", op, slog.Any("error", err))
}
