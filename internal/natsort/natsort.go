// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package natsort orders filenames so that embedded numbers compare as
// integers: "p2.jpg" sorts before "p10.jpg".
package natsort

import (
	"sort"
	"strings"
)

// chunk is one run of either digits or non-digits from a string.
type chunk struct {
	text  string
	num   uint64
	isNum bool
}

// split breaks s into alternating non-digit and digit runs.
func split(s string) []chunk {
	var chunks []chunk
	var b strings.Builder
	var inNum bool

	flush := func() {
		if b.Len() == 0 {
			return
		}
		c := chunk{text: b.String(), isNum: inNum}
		if inNum {
			c.num = parseUint(c.text)
		}
		chunks = append(chunks, c)
		b.Reset()
	}

	for _, r := range s {
		digit := r >= '0' && r <= '9'
		if digit != inNum {
			flush()
			inNum = digit
		}
		b.WriteRune(r)
	}
	flush()
	return chunks
}

// parseUint converts a digit run without strconv's error path; runs long
// enough to overflow saturate, which still yields a stable order.
func parseUint(s string) uint64 {
	var n uint64
	for i := 0; i < len(s); i++ {
		d := uint64(s[i] - '0')
		if n > (^uint64(0)-d)/10 {
			return ^uint64(0)
		}
		n = n*10 + d
	}
	return n
}

// Less reports whether a orders before b under natural comparison.
// Digit runs compare numerically, other runs compare as literal text.
func Less(a, b string) bool {
	ca, cb := split(a), split(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		switch {
		case x.isNum && y.isNum:
			if x.num != y.num {
				return x.num < y.num
			}
			// Equal values with different zero padding fall back to text.
			if x.text != y.text {
				return x.text < y.text
			}
		default:
			if x.text != y.text {
				return x.text < y.text
			}
		}
	}
	return len(ca) < len(cb)
}

// Strings sorts ss in place into natural order.
func Strings(ss []string) {
	sort.Slice(ss, func(i, j int) bool { return Less(ss[i], ss[j]) })
}
