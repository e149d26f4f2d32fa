// Package postgres implements catalog.Store on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unkn0wn-root/storefront/catalog"
)

//go:embed migrations.sql
var migrationSQL string

const columns = `id, name, description, price, image, category, is_featured, created_at, updated_at`

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Store struct {
	db *sqlx.DB
}

var _ catalog.Store = (*Store)(nil)

// Open connects, pings and applies the pool settings.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle. The store owns it from now on.
func NewWithDB(db *sqlx.DB) *Store { return &Store{db: db} }

// Migrate applies the embedded schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (s *Store) FindAll(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Featured != nil {
		args = append(args, *f.Featured)
		where = append(where, "is_featured = $"+strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + columns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	out := []catalog.Product{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return out, nil
}

// badID reports an id no row can have. The column is a uuid, so anything
// uuid.Parse rejects would otherwise fail the server-side cast.
func badID(id string) bool {
	_, err := uuid.Parse(id)
	return err != nil
}

// badIDCast matches invalid_text_representation, raised when the server
// cannot cast the id parameter to uuid.
func badIDCast(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func (s *Store) FindByID(ctx context.Context, id string) (catalog.Product, error) {
	if badID(id) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	var p catalog.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+columns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) || badIDCast(err) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("find product %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.Validate(p); err != nil {
		return catalog.Product{}, err
	}
	p.ID = uuid.NewString()
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO products (id, name, description, price, image, category, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Category, p.IsFeatured,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if badID(p.ID) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	err := s.db.QueryRowxContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, image = $5, category = $6, is_featured = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Category, p.IsFeatured,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || badIDCast(err) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if badID(id) {
		return catalog.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if badIDCast(err) {
		return catalog.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) Sample(ctx context.Context, n int) ([]catalog.Product, error) {
	out := []catalog.Product{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+columns+` FROM products ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("sample products: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }
