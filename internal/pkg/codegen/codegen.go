// Package codegen derives the short human-readable codes printed on
// book spines and member cards. Codes are pseudo-random and NOT globally
// unique; callers must retry on a uniqueness violation from storage.
package codegen

import (
	"math/rand"
	"strconv"
	"strings"
)

// GenerateBookCode builds a book code from the first letter of the author
// and the first three letters of the title, uppercased, followed by a
// random numeric suffix in [100, 1099]. Example: "GBUK-347".
func GenerateBookCode(author, title string) string {
	return strings.ToUpper(take(author, 1)+take(title, 3)) + "-" + strconv.Itoa(rand.Intn(1000)+100)
}

// GenerateMemberCode builds a member code from the first two characters of
// the name and the first two of the email, uppercased, followed by a random
// numeric suffix in [100, 999]. Example: "JOTE-512".
func GenerateMemberCode(name, email string) string {
	return strings.ToUpper(take(name, 2)+take(email, 2)) + "-" + strconv.Itoa(rand.Intn(900)+100)
}

// take returns the first n runes of s, or all of s when it is shorter.
func take(s string, n int) string {
	r := []rune(s)
	if len(r) < n {
		n = len(r)
	}
	return string(r[:n])
}
