package textutil

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Cosine returns the cosine similarity of two equal-length vectors.
// Mismatched lengths or zero vectors yield 0.
func Cosine[T float32 | float64](a, b []T) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// FuzzyRatio returns the sequence-matcher similarity ratio of two strings in
// [0, 1], computed over characters.
func FuzzyRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Sigmoid is the logistic function.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Remap linearly maps v from [fromLo, fromHi] onto [toLo, toHi] and clamps
// the result to the target range.
func Remap(v, fromLo, fromHi, toLo, toHi float64) float64 {
	if fromHi == fromLo {
		return toLo
	}
	out := (v-fromLo)/(fromHi-fromLo)*(toHi-toLo) + toLo
	lo, hi := math.Min(toLo, toHi), math.Max(toLo, toHi)
	return Clamp(out, lo, hi)
}
