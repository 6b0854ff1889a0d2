package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing item and comment data from storage.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error)
	// Search returns available items whose name or description contains the
	// text, case-insensitively.
	Search(ctx context.Context, text string) ([]*Item, error)
	CreateComment(ctx context.Context, cm *Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	const query = `
		INSERT INTO public.items (name, description, available, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query, it.Name, it.Description, it.Available, it.OwnerID).
		Scan(&it.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id
		FROM public.items
		WHERE id = $1
	`

	var it Item
	if err := r.pool.QueryRow(ctx, query, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	const query = `
		UPDATE public.items
		SET name = $1, description = $2, available = $3
		WHERE id = $4
	`

	ct, err := r.pool.Exec(ctx, query, it.Name, it.Description, it.Available, it.ID)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id
		FROM public.items
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *pgxRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id
		FROM public.items
		WHERE available = true
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, text)
	if err != nil {
		return nil, fmt.Errorf("search items failed: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *pgxRepository) CreateComment(ctx context.Context, cm *Comment) error {
	const query = `
		INSERT INTO public.comments (item_id, text, author_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query, cm.ItemID, cm.Text, cm.AuthorID, cm.Created).
		Scan(&cm.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListCommentsByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	const query = `
		SELECT c.id, c.item_id, c.text, c.author_id, u.name, c.created
		FROM public.comments c
		JOIN public.users u ON c.author_id = u.id
		WHERE c.item_id = $1
		ORDER BY c.created
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.ItemID, &cm.Text, &cm.AuthorID, &cm.AuthorName, &cm.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &cm)
	}

	return comments, rows.Err()
}

func scanItems(rows pgx.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
