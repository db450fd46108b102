// Package random provides crypto-backed helpers for join codes, session
// tokens and unbiased shuffles.
package random

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
)

// codeCharset avoids ambiguous characters (I, O, 0, 1).
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	CodeLength  = 6
	TokenLength = 32
)

// JoinCode returns a short human-enterable game code.
func JoinCode() string {
	return randomString(codeCharset, CodeLength)
}

// SessionToken returns an opaque per-player credential.
func SessionToken() string {
	return randomString(tokenCharset, TokenLength)
}

func randomString(charset string, length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := crand.Int(crand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out)
}

// Intn returns a uniform random int in [0, n) using crypto/rand.
func Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return int(v.Int64())
}

// Shuffle permutes indices with an unbiased Fisher-Yates driven by
// crypto/rand, so every ordering is equally likely.
func Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(i + 1)
		swap(i, j)
	}
}
