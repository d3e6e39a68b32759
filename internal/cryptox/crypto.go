// Package cryptox derives non-reversible identifiers from secrets so they
// can appear in logs and metrics.
package cryptox

import (
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// fingerprintLen is the number of digest bytes kept (hex doubles it).
const fingerprintLen = 6

// StoreFingerprint returns a short, stable identifier for the store a
// connection string points at. Only scheme, user, host, port and database
// feed the digest, so the password never influences it and rotating
// credentials keeps the fingerprint stable. Strings that do not parse as a
// URL are hashed whole.
func StoreFingerprint(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return ""
	}

	material := dsn
	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "postgres" {
			scheme = "postgresql"
		}
		material = scheme + "\x00" + u.User.Username() + "\x00" + strings.ToLower(u.Host) + "\x00" + strings.TrimPrefix(u.Path, "/")
	}

	sum := blake2b.Sum256([]byte(material))
	return hex.EncodeToString(sum[:fingerprintLen])
}
