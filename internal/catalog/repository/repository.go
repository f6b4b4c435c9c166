package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
	"shopfront_backend/platform/apperr"
)

const itemNotFoundMessage = "catalog item not found"

const itemColumns = "id, name, category, price, offer_price, image_ref, promoted"

// Repo implements the catalog repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// QueryItems executes a predicate against catalog_items. Rows come back in
// a stable order (name, then id) so consecutive pages concatenate into the
// same sequence as one larger query.
func (r *Repo) QueryItems(ctx context.Context, pred query.Predicate, limit, offset int) ([]domain.Record, error) {
	whereClause, args, err := TranslatePredicate(pred, 1)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "invalid catalog predicate", err)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM catalog_items
		WHERE %s
		ORDER BY name ASC NULLS LAST, id ASC`, itemColumns, whereClause)

	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", rows.Err())
	}

	return records, nil
}

// CreateItem creates a catalog item.
func (r *Repo) CreateItem(ctx context.Context, params CreateItemParams) (domain.Record, error) {
	sql := fmt.Sprintf(`
		INSERT INTO catalog_items (shop_id, name, category, price, offer_price, image_ref, promoted, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, itemColumns)

	row := r.pool.QueryRow(ctx, sql,
		params.ShopID, params.Name, params.Category, params.Price,
		params.OfferPrice, params.ImageRef, params.Promoted, params.Available,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("create catalog item: %w", err)
	}
	return rec, nil
}

// UpdateItem updates a catalog item. Nil params leave columns unchanged.
func (r *Repo) UpdateItem(ctx context.Context, params UpdateItemParams) (domain.Record, error) {
	sql := fmt.Sprintf(`
		UPDATE catalog_items
		SET name = COALESCE($3, name),
			category = COALESCE($4, category),
			price = COALESCE($5, price),
			offer_price = COALESCE($6, offer_price),
			image_ref = COALESCE($7, image_ref),
			promoted = COALESCE($8, promoted),
			available = COALESCE($9, available),
			updated_at = now()
		WHERE id = $1 AND shop_id = $2
		RETURNING %s`, itemColumns)

	row := r.pool.QueryRow(ctx, sql,
		params.ID, params.ShopID, params.Name, params.Category, params.Price,
		params.OfferPrice, params.ImageRef, params.Promoted, params.Available,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, apperr.NotFound(itemNotFoundMessage)
		}
		return domain.Record{}, fmt.Errorf("update catalog item: %w", err)
	}
	return rec, nil
}

// DeleteItem deletes a catalog item and returns its image reference.
func (r *Repo) DeleteItem(ctx context.Context, shopID uuid.UUID, id uuid.UUID) (*string, error) {
	sql := `DELETE FROM catalog_items WHERE id = $1 AND shop_id = $2 RETURNING image_ref`

	var imageRef *string
	if err := r.pool.QueryRow(ctx, sql, id, shopID).Scan(&imageRef); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(itemNotFoundMessage)
		}
		return nil, fmt.Errorf("delete catalog item: %w", err)
	}
	return imageRef, nil
}

// DeleteShopItems deletes every item of a shop and returns their image
// references for storage cleanup.
func (r *Repo) DeleteShopItems(ctx context.Context, shopID uuid.UUID) ([]string, error) {
	sql := `DELETE FROM catalog_items WHERE shop_id = $1 RETURNING image_ref`

	rows, err := r.pool.Query(ctx, sql, shopID)
	if err != nil {
		return nil, fmt.Errorf("delete shop items: %w", err)
	}
	defer rows.Close()

	refs := make([]string, 0)
	for rows.Next() {
		var ref *string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan deleted item: %w", err)
		}
		if ref != nil && *ref != "" {
			refs = append(refs, *ref)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate deleted items: %w", rows.Err())
	}

	return refs, nil
}

// GetItemByID retrieves one catalog item.
func (r *Repo) GetItemByID(ctx context.Context, shopID uuid.UUID, id uuid.UUID) (domain.Record, error) {
	sql := fmt.Sprintf(`SELECT %s FROM catalog_items WHERE id = $1 AND shop_id = $2`, itemColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, sql, id, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, apperr.NotFound(itemNotFoundMessage)
		}
		return domain.Record{}, fmt.Errorf("get catalog item: %w", err)
	}
	return rec, nil
}

// RenameCategory moves all items of a shop from one category to another.
func (r *Repo) RenameCategory(ctx context.Context, shopID uuid.UUID, from, to string) (int64, error) {
	sql := `
		UPDATE catalog_items
		SET category = $3, updated_at = now()
		WHERE shop_id = $1 AND category = $2`

	result, err := r.pool.Exec(ctx, sql, shopID, from, to)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListCategories returns the distinct categories of a shop's catalog.
func (r *Repo) ListCategories(ctx context.Context, shopID uuid.UUID) ([]string, error) {
	sql := `
		SELECT DISTINCT category
		FROM catalog_items
		WHERE shop_id = $1 AND category IS NOT NULL
		ORDER BY category ASC`

	rows, err := r.pool.Query(ctx, sql, shopID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}

	return categories, nil
}

func scanRecord(row pgx.Row) (domain.Record, error) {
	var rec domain.Record
	var id uuid.UUID
	if err := row.Scan(
		&id, &rec.Name, &rec.Category, &rec.Price,
		&rec.OfferPrice, &rec.ImageRef, &rec.Promoted,
	); err != nil {
		return domain.Record{}, err
	}
	rec.ID = id.String()
	return rec, nil
}
