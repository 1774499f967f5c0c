// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// EnsureGroupWithGrants makes sure the named group exists and holds the given
// permissions. Safe to run on every startup: the group is fetched or created,
// and grants are inserted idempotently. Permissions absent from the catalog
// are skipped with a warning rather than failing the boot.
func (q *Queries) EnsureGroupWithGrants(ctx context.Context, name string, grants map[string][]string) (Group, error) {
	group, err := q.GetGroupByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		group, err = q.CreateGroup(ctx, name, time.Now())
		if errors.Is(err, ErrDuplicate) {
			// Lost a startup race with another instance; the row exists now.
			group, err = q.GetGroupByName(ctx, name)
		}
	}
	if err != nil {
		return Group{}, fmt.Errorf("ensure group %q: %w", name, err)
	}

	for resource, actions := range grants {
		for _, action := range actions {
			perm, err := q.GetPermission(ctx, GetPermissionParams{
				Resource: resource,
				Action:   action,
			})
			if errors.Is(err, sql.ErrNoRows) {
				slog.Warn("permission not in catalog, skipping grant",
					"group", name, "resource", resource, "action", action)
				continue
			}
			if err != nil {
				return Group{}, fmt.Errorf("lookup permission %s:%s: %w", resource, action, err)
			}
			if err := q.GrantPermissionToGroup(ctx, GrantPermissionParams{
				GroupID:      group.ID,
				PermissionID: perm.ID,
			}); err != nil {
				return Group{}, fmt.Errorf("grant %s:%s to %q: %w", resource, action, name, err)
			}
		}
	}
	return group, nil
}
