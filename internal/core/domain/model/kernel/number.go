package kernel

import (
	"math/rand/v2"
	"strings"
)

const (
	digits       = "0123456789"
	alphanumeric = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"
)

// GenerateNumber returns prefix followed by n random digits, the form of
// human-facing order and shipment numbers ("R123456789").
func GenerateNumber(prefix string, n int) string {
	return generate(prefix, n, digits)
}

// GenerateCode returns prefix followed by n random upper-case letters or digits.
func GenerateCode(prefix string, n int) string {
	return generate(prefix, n, alphanumeric)
}

func generate(prefix string, n int, alphabet string) string {
	var b strings.Builder
	b.Grow(len(prefix) + n)
	b.WriteString(prefix)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
