// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// GetGroupByName fetches a group by its unique name.
func (q *Queries) GetGroupByName(ctx context.Context, name string) (Group, error) {
	var g Group
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM groups WHERE name = ?`, name).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	return g, err
}

// CreateGroup inserts a group. Returns ErrDuplicate if the name exists.
func (q *Queries) CreateGroup(ctx context.Context, name string, createdAt time.Time) (Group, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO groups (name, created_at) VALUES (?, ?)
		RETURNING id, name, created_at`, name, createdAt)
	var g Group
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
		return Group{}, mapInsertErr(err)
	}
	return g, nil
}

// GetPermissionParams identifies a permission in the catalog.
type GetPermissionParams struct {
	Resource string
	Action   string
}

// GetPermission fetches a permission by (resource, action).
func (q *Queries) GetPermission(ctx context.Context, arg GetPermissionParams) (Permission, error) {
	var p Permission
	err := q.db.QueryRowContext(ctx,
		`SELECT id, resource, action FROM permissions WHERE resource = ? AND action = ?`,
		arg.Resource, arg.Action).
		Scan(&p.ID, &p.Resource, &p.Action)
	return p, err
}

// CreatePermission adds a permission to the catalog. Used by tests and
// future migrations; the base catalog ships in the schema.
func (q *Queries) CreatePermission(ctx context.Context, resource, action string) (Permission, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO permissions (resource, action) VALUES (?, ?)
		RETURNING id, resource, action`, resource, action)
	var p Permission
	if err := row.Scan(&p.ID, &p.Resource, &p.Action); err != nil {
		return Permission{}, mapInsertErr(err)
	}
	return p, nil
}

// GrantPermissionParams holds the fields for GrantPermissionToGroup.
type GrantPermissionParams struct {
	GroupID      int64
	PermissionID int64
}

// GrantPermissionToGroup adds a permission to a group. Granting an
// already-held permission is a no-op.
func (q *Queries) GrantPermissionToGroup(ctx context.Context, arg GrantPermissionParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO group_permissions (group_id, permission_id)
		VALUES (?, ?)
		ON CONFLICT (group_id, permission_id) DO NOTHING`,
		arg.GroupID, arg.PermissionID)
	return err
}

// ListGroupPermissions returns a group's permissions ordered by resource
// then action.
func (q *Queries) ListGroupPermissions(ctx context.Context, groupID int64) ([]Permission, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.resource, p.action
		FROM group_permissions gp
		JOIN permissions p ON p.id = gp.permission_id
		WHERE gp.group_id = ?
		ORDER BY p.resource, p.action`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Resource, &p.Action); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// AddUserToGroupParams holds the fields for AddUserToGroup.
type AddUserToGroupParams struct {
	UserID  int64
	GroupID int64
}

// AddUserToGroup puts a user into a group, idempotently.
func (q *Queries) AddUserToGroup(ctx context.Context, arg AddUserToGroupParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, group_id) DO NOTHING`,
		arg.UserID, arg.GroupID)
	return err
}

// UserInGroup reports whether the user belongs to the named group.
func (q *Queries) UserInGroup(ctx context.Context, userID int64, groupName string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = ? AND g.name = ?`, userID, groupName).Scan(&n)
	return n > 0, err
}
