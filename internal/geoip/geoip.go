// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IP addresses to ISO country codes using a
// MaxMind GeoLite2-Country database. Used to enrich audit log entries for
// login events.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

var privateCIDRs []*net.IPNet

func init() {
	for _, block := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",
		"fe80::/10",
	} {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Resolver maps IP addresses to country codes. The zero value is a disabled
// resolver that returns empty codes; call Init with a database path to enable.
type Resolver struct {
	mu        sync.RWMutex
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	enabled   bool
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewResolver creates a disabled resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Init loads the database at dbPath. An empty path leaves the resolver
// disabled without error, so deployments without a GeoIP database keep
// working.
func (r *Resolver) Init(dbPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dbPath = dbPath
	if dbPath == "" {
		r.enabled = false
		return nil
	}
	return r.load()
}

// load opens or reloads the database file. Caller holds the write lock.
func (r *Resolver) load() error {
	info, err := os.Stat(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("geoip database %s: %w", r.dbPath, err)
	}

	// Unchanged on disk, nothing to do.
	if r.db != nil && info.ModTime().Equal(r.dbModTime) {
		return nil
	}

	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}

	db, err := maxminddb.Open(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("opening geoip database: %w", err)
	}

	r.db = db
	r.dbModTime = info.ModTime()
	r.enabled = true
	return nil
}

// Reload re-reads the database if the file changed. Safe to call from a
// scheduled job.
func (r *Resolver) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dbPath == "" {
		return nil
	}
	return r.load()
}

// CountryCode returns the 2-letter ISO country code for ip, "LOCAL" for
// private and loopback addresses, or "" when the resolver is disabled or the
// address cannot be resolved.
func (r *Resolver) CountryCode(ip string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || isPrivate(parsed) {
		return "LOCAL"
	}
	if !r.enabled || r.db == nil {
		return ""
	}

	var rec countryRecord
	if err := r.db.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether lookups are available.
func (r *Resolver) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Close releases the database.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.enabled = false
	return err
}

func isPrivate(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
