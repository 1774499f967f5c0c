// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"strings"

	sqlite "modernc.org/sqlite"
)

// ErrDuplicate is returned by insert queries when a UNIQUE constraint is
// violated. Callers branch on it instead of inspecting driver errors, so the
// "did this row already exist" question is a typed result rather than a
// caught fault.
var ErrDuplicate = errors.New("store: duplicate row")

// SQLite extended result codes for UNIQUE constraint violations. The
// primary SQLITE_CONSTRAINT code (19) is deliberately not matched: it also
// covers foreign key, NOT NULL and CHECK failures, which must not read as
// duplicates.
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// isUniqueViolation reports whether err is a UNIQUE constraint violation.
// The message fallback covers the mattn driver used by in-memory test
// databases; the message text comes from SQLite itself and is stable.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapInsertErr converts unique violations to ErrDuplicate and passes
// everything else through.
func mapInsertErr(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
