package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/suar-net/starter-be/internal/model"
)

// itemRepository is the Postgres implementation of IItemRepository.
type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) IItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `key, name, description, created_at, updated_at`

func (r *itemRepository) List(ctx context.Context) ([]*model.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func (r *itemRepository) Search(ctx context.Context, term string) ([]*model.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func (r *itemRepository) GetByKey(ctx context.Context, key string) (*model.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE key = $1`

	var item model.Item
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&item.Key,
		&item.Name,
		&item.Description,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoItem
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (key, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		item.Key,
		item.Name,
		item.Description,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, updated_at = $4
		WHERE key = $1`

	res, err := r.db.ExecContext(ctx, query, item.Key, item.Name, item.Description, item.UpdatedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *itemRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE key = $1`, key)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoItem
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	defer rows.Close()

	items := []*model.Item{}
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(
			&item.Key,
			&item.Name,
			&item.Description,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
