package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache holds lookup response bodies for the lifetime of one run
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Len() int
}

// CacheKey derives a memo key from a lookup kind and the request URL
func CacheKey(kind string, url string) string {
	hash := sha256.Sum256([]byte(url))
	return "kotoba:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
