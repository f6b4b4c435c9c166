// Package repository implements shop persistence using pgx.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront_backend/platform/apperr"
)

// Shop is one tenant of the storefront platform.
type Shop struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	ThemeKey  string    `json:"themeKey"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateParams contains data for registering a shop.
type CreateParams struct {
	Slug     string
	Name     string
	ThemeKey string
	Currency string
}

// UpdateParams contains data for updating a shop. Nil fields are unchanged.
type UpdateParams struct {
	ID       uuid.UUID
	Name     *string
	ThemeKey *string
	Currency *string
}

// Repository defines shop storage operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Shop, error)
	GetByID(ctx context.Context, id uuid.UUID) (Shop, error)
	GetBySlug(ctx context.Context, slug string) (Shop, error)
	List(ctx context.Context) ([]Shop, error)
	Update(ctx context.Context, params UpdateParams) (Shop, error)
	Delete(ctx context.Context, id uuid.UUID) (Shop, error)
}

// Repo is the pgx implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a shop repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const shopColumns = "id, slug, name, theme_key, currency, created_at, updated_at"

func scanShop(row pgx.Row) (Shop, error) {
	var s Shop
	err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.ThemeKey, &s.Currency, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create registers a new shop. A taken slug maps to a conflict error.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Shop, error) {
	query := `
		INSERT INTO shops (slug, name, theme_key, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + shopColumns

	shop, err := scanShop(r.pool.QueryRow(ctx, query,
		params.Slug, params.Name, params.ThemeKey, params.Currency,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Shop{}, apperr.Conflict(fmt.Sprintf("slug %q is already taken", params.Slug))
		}
		return Shop{}, fmt.Errorf("create shop: %w", err)
	}
	return shop, nil
}

// GetByID fetches a shop by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	shop, err := scanShop(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound("shop not found")
		}
		return Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return shop, nil
}

// GetBySlug fetches a shop by its public storefront slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE slug = $1`

	shop, err := scanShop(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound("shop not found")
		}
		return Shop{}, fmt.Errorf("get shop by slug: %w", err)
	}
	return shop, nil
}

// List returns all shops, newest first.
func (r *Repo) List(ctx context.Context) ([]Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var shops []Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

// Update applies a partial update. Nil params keep the current value.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Shop, error) {
	query := `
		UPDATE shops SET
			name = COALESCE($2, name),
			theme_key = COALESCE($3, theme_key),
			currency = COALESCE($4, currency),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + shopColumns

	shop, err := scanShop(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.ThemeKey, params.Currency,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound("shop not found")
		}
		return Shop{}, fmt.Errorf("update shop: %w", err)
	}
	return shop, nil
}

// Delete removes a shop and returns the deleted row so callers can publish
// the deletion event with its slug.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (Shop, error) {
	query := `DELETE FROM shops WHERE id = $1 RETURNING ` + shopColumns

	shop, err := scanShop(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound("shop not found")
		}
		return Shop{}, fmt.Errorf("delete shop: %w", err)
	}
	return shop, nil
}
