package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const (
	// idToNumberRange bounds IDToNumber results.
	idToNumberRange = 1_000_000_000

	// itemIDRange bounds ItemID results.
	itemIDRange = 1_000_000
)

// Deriver produces time-salted identifiers. The zero value is ready to use
// with the wall clock; tests inject Now for deterministic output.
type Deriver struct {
	// Now supplies the salt timestamp. Nil means time.Now.
	Now func() time.Time
}

func (d *Deriver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// GenerateID hashes the content together with the current time and returns
// a decimal id from the first 12 hex digits of the digest, optionally
// namespaced as "<prefix>_<n>". The salt means repeated identical content
// yields different ids; collisions remain possible in principle and are not
// checked.
func (d *Deriver) GenerateID(content map[string]any, prefix string) (string, error) {
	canonical, err := Canonical(content)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	salt := strconv.FormatInt(d.now().UnixNano(), 10)
	sum := sha256.Sum256(append(canonical, salt...))
	n, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:12], 16, 64)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s_%d", prefix, n), nil
	}
	return strconv.FormatUint(n, 10), nil
}

// IDToNumber deterministically folds a string id into [0, 1e9) for use as a
// link endpoint. Lossy: distinct ids can fold to the same number.
func IDToNumber(id string) int64 {
	sum := sha256.Sum256([]byte(id))
	n, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	return int64(n % idToNumberRange)
}

// ItemID derives a stable id in [0, 1e6) from canonicalized content with no
// time salt. Identical content (ignoring children, which callers strip
// before hashing) yields the same id on every call.
func ItemID(item map[string]any) (int64, error) {
	canonical, err := Canonical(item)
	if err != nil {
		return 0, fmt.Errorf("item id: %w", err)
	}
	sum := sha256.Sum256(canonical)
	n, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("item id: %w", err)
	}
	return int64(n % itemIDRange), nil
}
