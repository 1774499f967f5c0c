// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
	Name string
	Slug string
}

// CreateCategory inserts a category. Returns ErrDuplicate if the name or
// slug already exists; category slugs have no collision suffixing.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug) VALUES (?, ?)
		RETURNING id, name, slug`,
		arg.Name, arg.Slug)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return Category{}, mapInsertErr(err)
	}
	return c, nil
}

// GetCategoryByID fetches a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Slug)
	return c, err
}

// GetCategoryBySlug fetches a category by slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category. Events referencing it keep existing
// with a NULL category (ON DELETE SET NULL).
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CategorySlugExists returns the number of categories with the given slug.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE slug = ?`, slug).Scan(&n)
	return n, err
}

// CategoryNameExists returns the number of categories with the given name.
func (q *Queries) CategoryNameExists(ctx context.Context, name string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&n)
	return n, err
}
