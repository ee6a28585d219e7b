package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresRepository хранит сессии в PostgreSQL в виде JSONB-документов.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(r.delays) {
			break
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Get возвращает сессию по идентификатору.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	var data []byte
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT data FROM checkout_sessions WHERE id = $1`,
			id,
		).Scan(&data)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	return decodeSession(data)
}

// Insert сохраняет новую сессию.
func (r *PostgresRepository) Insert(ctx context.Context, s *model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = r.withRetry(ctx, func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO checkout_sessions (id, data, terminal, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			s.ID, data, string(s.Terminal), s.CreatedAt, s.UpdatedAt,
		)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
		}
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// Update применяет fn к сессии внутри транзакции с блокировкой строки.
// Конкурентные изменения одной сессии сериализуются SELECT ... FOR UPDATE.
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	var updated *model.Session

	err := r.withRetry(ctx, func() error {
		s, err := r.updateTx(ctx, id, fn)
		if err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *PostgresRepository) updateTx(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var data []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM checkout_sessions WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("lock session for update: %w", err)
	}

	s, err := decodeSession(data)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		return nil, err
	}

	data, err = json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE checkout_sessions SET data = $2, terminal = $3, updated_at = $4 WHERE id = $1`,
		id, data, string(s.Terminal), s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return s, nil
}

func decodeSession(data []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
