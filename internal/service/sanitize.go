package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Maximum stored lengths, in characters.
const (
	MaxMerchantLength    = 255
	MaxNotesLength       = 1000
	MaxDescriptionLength = 1000
)

// UnknownAddress is hashed when the request carries no forwarded address.
const UnknownAddress = "unknown"

// Sanitize trims s and cuts it to max characters. A nil input stays nil.
func Sanitize(s *string, max int) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if utf8.RuneCountInString(trimmed) > max {
		trimmed = string([]rune(trimmed)[:max])
	}
	return &trimmed
}

// ClientAddress picks the first X-Forwarded-For entry, then X-Real-IP,
// then UnknownAddress.
func ClientAddress(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP = strings.TrimSpace(realIP); realIP != "" {
		return realIP
	}
	return UnknownAddress
}

// IPHasher turns a client address into a salted one-way identifier.
type IPHasher struct {
	salt string
}

func NewIPHasher(salt string) IPHasher {
	return IPHasher{salt: salt}
}

// Hash returns hex(sha256(salt + address)).
func (h IPHasher) Hash(address string) string {
	sum := sha256.Sum256([]byte(h.salt + address))
	return hex.EncodeToString(sum[:])
}
