// Package pg implementa core.AccountStore sobre PostgreSQL con pgx.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/store/core"
)

type Store struct{ pool *pgxpool.Pool }

type Config struct {
	MaxConns        int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	// Arranque no bloqueante: si la DB está caída igual levantamos.
	if err := pool.Ping(ctx); err != nil {
		logger.From(ctx).Warn("pg_pool_startup_ping_failed", logger.Err(err))
	} else {
		logger.From(ctx).Info("pg_pool_ready", zap.Int32("max_conns", pcfg.MaxConns))
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// isUniqueViolation mapea el SQLSTATE 23505 de Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) FindLink(ctx context.Context, socialID, typ string, websiteID int64) (*core.IdentityLink, error) {
	const q = `SELECT social_login_id, social_id, customer_id, type, website_id, created_at
	           FROM social_customer
	           WHERE social_id = $1 AND type = $2 AND website_id = $3`
	var l core.IdentityLink
	err := s.pool.QueryRow(ctx, q, socialID, typ, websiteID).
		Scan(&l.ID, &l.SocialID, &l.CustomerID, &l.Type, &l.WebsiteID, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) CreateLink(ctx context.Context, socialID, customerID, typ string, websiteID int64) (*core.IdentityLink, error) {
	const q = `INSERT INTO social_customer (social_login_id, social_id, customer_id, type, website_id)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING created_at`
	l := core.IdentityLink{
		ID:         uuid.NewString(),
		SocialID:   socialID,
		CustomerID: customerID,
		Type:       typ,
		WebsiteID:  websiteID,
	}
	err := s.pool.QueryRow(ctx, q, l.ID, socialID, customerID, typ, websiteID).Scan(&l.CreatedAt)
	if isUniqueViolation(err) {
		return nil, core.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	const q = `DELETE FROM customer WHERE customer_id = $1`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) FindAccountByEmail(ctx context.Context, email string, websiteID int64) (*core.Account, error) {
	const q = `SELECT customer_id, website_id, email, first_name, last_name, created_at
	           FROM customer
	           WHERE LOWER(email) = LOWER($1) AND website_id = $2`
	var a core.Account
	err := s.pool.QueryRow(ctx, q, email, websiteID).
		Scan(&a.ID, &a.WebsiteID, &a.Email, &a.FirstName, &a.LastName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	const q = `SELECT customer_id, website_id, email, first_name, last_name, created_at
	           FROM customer
	           WHERE customer_id = $1`
	var a core.Account
	err := s.pool.QueryRow(ctx, q, id).
		Scan(&a.ID, &a.WebsiteID, &a.Email, &a.FirstName, &a.LastName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, na core.NewAccount) (*core.Account, error) {
	const q = `INSERT INTO customer (customer_id, website_id, email, first_name, last_name, password_hash)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING created_at`
	a := core.Account{
		ID:        uuid.NewString(),
		WebsiteID: na.WebsiteID,
		Email:     na.Email,
		FirstName: na.FirstName,
		LastName:  na.LastName,
	}
	err := s.pool.QueryRow(ctx, q, a.ID, na.WebsiteID, na.Email, na.FirstName, na.LastName, na.PasswordHash).
		Scan(&a.CreatedAt)
	if isUniqueViolation(err) {
		return nil, core.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
