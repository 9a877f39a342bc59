package ident

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Identifier lengths.
const (
	CompactLen   = 22
	ShortLen     = 23
	CanonicalLen = 36
)

const (
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	hexDigits = "0123456789abcdef"

	// padding is the value of '=' and of any byte outside the alphabet.
	padding = 64
)

var (
	symbolValues [256]byte

	// slots lists the 32 nibble positions of the 8-4-4-4-12 template.
	slots [32]int
)

func init() {
	for i := range symbolValues {
		symbolValues[i] = padding
	}
	for i := 0; i < len(alphabet); i++ {
		symbolValues[alphabet[i]] = byte(i)
	}
	j := 0
	for i := 0; i < CanonicalLen; i++ {
		if isHyphenPos(i) {
			continue
		}
		slots[j] = i
		j++
	}
}

func isHyphenPos(i int) bool {
	return i == 8 || i == 13 || i == 18 || i == 23
}

// Decode converts a compact identifier to its canonical form.
// Inputs that are not 22 characters long, or that contain a symbol outside
// the base64 alphabet, are returned unchanged.
func Decode(compact string) string {
	if len(compact) != CompactLen {
		return compact
	}
	nibbles := make([]byte, 0, 32)
	nibbles = append(nibbles, compact[0], compact[1])
	nibbles, ok := appendNibbles(nibbles, compact[2:])
	if !ok {
		return compact
	}
	return layout(nibbles)
}

// Encode converts a canonical identifier to its compact form. It is the exact
// inverse of [Decode]. Non-canonical input is returned unchanged.
func Encode(canonical string) string {
	nibbles, ok := canonicalNibbles(canonical)
	if !ok {
		return canonical
	}
	var b strings.Builder
	b.Grow(CompactLen)
	b.Write(nibbles[:2])
	appendSymbols(&b, nibbles[2:])
	return b.String()
}

// Decompress is the byte-oriented name the runtime tooling uses for the
// 36 to 22 character conversion. It is identical to [Encode].
func Decompress(canonical string) string {
	return Encode(canonical)
}

// Compress converts a canonical identifier to the 23-character short form.
func Compress(canonical string) string {
	nibbles, ok := canonicalNibbles(canonical)
	if !ok {
		return canonical
	}
	var b strings.Builder
	b.Grow(ShortLen)
	b.Write(nibbles[:5])
	appendSymbols(&b, nibbles[5:])
	return b.String()
}

// Expand converts a 23-character short identifier to its canonical form.
func Expand(short string) string {
	if !IsShort(short) {
		return short
	}
	nibbles := make([]byte, 0, 32)
	nibbles = append(nibbles, short[:5]...)
	nibbles, ok := appendNibbles(nibbles, short[5:])
	if !ok {
		return short
	}
	return layout(nibbles)
}

// PromoteLong converts a 23-character short identifier to the 22-character
// compact form. Only the three literal nibbles after the first two change
// representation; the trailing 18 symbols are shared by both forms.
func PromoteLong(short string) string {
	if !IsShort(short) {
		return short
	}
	var b strings.Builder
	b.Grow(CompactLen)
	b.WriteString(short[:2])
	appendSymbols(&b, []byte(short[2:5]))
	b.WriteString(short[5:])
	return b.String()
}

// IsCompact reports whether s is a well-formed compact identifier.
func IsCompact(s string) bool {
	return len(s) == CompactLen && isLowerHex(s[:2]) && isSymbols(s[2:])
}

// IsShort reports whether s is a well-formed short identifier.
func IsShort(s string) bool {
	return len(s) == ShortLen && isLowerHex(s[:5]) && isSymbols(s[5:])
}

// IsCanonical reports whether s is a well-formed canonical identifier.
func IsCanonical(s string) bool {
	_, ok := canonicalNibbles(s)
	return ok
}

// Random returns a freshly generated canonical identifier.
func Random() string {
	return uuid.NewString()
}

const nameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomName returns an n-character alphanumeric name.
func RandomName(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = nameChars[rand.IntN(len(nameChars))]
	}
	return string(b)
}

// appendNibbles decodes symbol pairs into hex nibbles.
func appendNibbles(dst []byte, symbols string) ([]byte, bool) {
	if len(symbols)%2 != 0 {
		return dst, false
	}
	for i := 0; i < len(symbols); i += 2 {
		lhs, rhs := symbolValues[symbols[i]], symbolValues[symbols[i+1]]
		if lhs == padding || rhs == padding {
			return dst, false
		}
		dst = append(dst,
			hexDigits[lhs>>2],
			hexDigits[(lhs&3)<<2|rhs>>4],
			hexDigits[rhs&0xF],
		)
	}
	return dst, true
}

// appendSymbols encodes hex nibble triplets into symbol pairs.
// len(nibbles) must be a multiple of three and every nibble a hex digit.
func appendSymbols(b *strings.Builder, nibbles []byte) {
	for i := 0; i+2 < len(nibbles); i += 3 {
		n0, n1, n2 := hexValue(nibbles[i]), hexValue(nibbles[i+1]), hexValue(nibbles[i+2])
		b.WriteByte(alphabet[n0<<2|n1>>2])
		b.WriteByte(alphabet[(n1&3)<<4|n2])
	}
}

func layout(nibbles []byte) string {
	var out [CanonicalLen]byte
	for i := range out {
		if isHyphenPos(i) {
			out[i] = '-'
		}
	}
	for i, n := range nibbles {
		out[slots[i]] = n
	}
	return string(out[:])
}

// canonicalNibbles returns the 32 lowercase hex digits of a canonical
// identifier, or false if s is not canonical.
func canonicalNibbles(s string) ([]byte, bool) {
	if len(s) != CanonicalLen {
		return nil, false
	}
	nibbles := make([]byte, 0, 32)
	for i := 0; i < CanonicalLen; i++ {
		c := s[i]
		if isHyphenPos(i) {
			if c != '-' {
				return nil, false
			}
			continue
		}
		if !isHexByte(c) {
			return nil, false
		}
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		nibbles = append(nibbles, c)
	}
	return nibbles, true
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

func isSymbols(s string) bool {
	for i := 0; i < len(s); i++ {
		if symbolValues[s[i]] == padding {
			return false
		}
	}
	return true
}
