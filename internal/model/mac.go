package model

import (
	"errors"
	"strings"
)

// ErrInvalidMAC is returned for inputs that are not 12 hex digits once separators are removed.
var ErrInvalidMAC = errors.New("invalid MAC address")

// MAC is a hardware address in canonical "aa:bb:cc:dd:ee:ff" form.
type MAC string

// ParseMAC accepts colon, hyphen, dot separated or bare hex addresses.
func ParseMAC(s string) (MAC, error) {
	bare := CompactMAC(s)
	if len(bare) != 12 {
		return "", ErrInvalidMAC
	}
	for _, r := range bare {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", ErrInvalidMAC
		}
	}

	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(bare[i : i+2])
	}
	return MAC(b.String()), nil
}

// CompactMAC lowercases s and strips separators. The result is not validated.
func CompactMAC(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '-', '.', ' ', '\t':
			return -1
		}
		if r >= 'A' && r <= 'F' {
			return r + ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(s))
}

// SameMAC compares two addresses ignoring formatting and case.
func SameMAC(a, b string) bool {
	ca := CompactMAC(a)
	return ca != "" && ca == CompactMAC(b)
}

// Compact returns the bare 12 hex digit form used in API paths.
func (m MAC) Compact() string {
	return CompactMAC(string(m))
}

func (m MAC) String() string {
	return string(m)
}
