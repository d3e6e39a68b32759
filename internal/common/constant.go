// Package common contains shared constants and sentinel errors used across
// healthsync components.
package common

import "time"

// StoreTypePostgres is the only store type accepted by the sync endpoints.
const StoreTypePostgres = "postgresql"

// PostgresURLPrefixes lists the accepted connection string schemes.
var PostgresURLPrefixes = []string{"postgres://", "postgresql://"}

// DefaultPullFloor is how far back every pull looks regardless of the
// caller's last sync time.
const DefaultPullFloor = 72 * time.Hour
