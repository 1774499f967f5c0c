// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain constants and types shared across the
// application: user roles, seat types, and audit log levels/categories.
package model

// User roles.
const (
	RoleRegular = "regular"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleRegular, RoleStaff, RoleAdmin}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Ticket seat types.
const (
	SeatStandard = "standard"
	SeatVIP      = "vip"
	SeatPremium  = "premium"
)

// ValidSeatTypes contains all valid ticket seat types.
var ValidSeatTypes = []string{SeatStandard, SeatVIP, SeatPremium}

// IsValidSeatType reports whether seatType is one of the known seat types.
func IsValidSeatType(seatType string) bool {
	for _, s := range ValidSeatTypes {
		if s == seatType {
			return true
		}
	}
	return false
}

// Review rating bounds.
const (
	RatingMin = 1
	RatingMax = 5
)

// Audit log levels.
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit log categories.
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryEvent    = "event"
	AuditCategoryBooking  = "booking"
	AuditCategoryReview   = "review"
	AuditCategoryCategory = "category"
	AuditCategorySystem   = "system"
)

// StaffEditorsGroup is the limited-privilege moderation group provisioned at
// startup.
const StaffEditorsGroup = "StaffEditors"

// Permission actions used by the group bootstrap grant table.
const (
	ActionAdd    = "add"
	ActionChange = "change"
	ActionView   = "view"
	ActionDelete = "delete"
)

// Permission resources.
const (
	ResourceEvent  = "event"
	ResourceReview = "review"
)

// StaffEditorGrants is the default grant table for the StaffEditors group:
// add/change/view on events and reviews, deliberately without delete.
var StaffEditorGrants = map[string][]string{
	ResourceEvent:  {ActionAdd, ActionChange, ActionView},
	ResourceReview: {ActionAdd, ActionChange, ActionView},
}
