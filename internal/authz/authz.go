// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package authz holds the ownership authorization policy: a resource may be
// mutated by its owner or by a user carrying the blanket staff flag.
//
// The staff flag is deliberately distinct from the role enum: a user whose
// role is "staff" but whose flag is off does NOT pass this check. The flag
// is granted individually; the role only widens read access elsewhere.
package authz

// IsOwnerOrStaff reports whether the acting user may modify or delete a
// resource owned by ownerID. The same policy covers events (owner field)
// and reviews (author field).
func IsOwnerOrStaff(actorID int64, actorStaffFlag bool, ownerID int64) bool {
	return actorID == ownerID || actorStaffFlag
}
