// Package refnum issues the short human-quotable codes residents write
// down to reference an anonymous submission later.
package refnum

import (
	"math/rand/v2"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a code in the form XXX-XXX where X is drawn from A-Z0-9.
// Codes are independent of each other and of the session id; the 36^6
// keyspace is not collision-checked against the store.
func Generate() string {
	var b strings.Builder
	b.Grow(7)
	for i := 0; i < 6; i++ {
		if i == 3 {
			b.WriteByte('-')
		}
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
