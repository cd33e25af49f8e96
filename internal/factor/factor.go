// Package factor is the workload of factorpool: naive trial-division prime
// factorization and the number to factors table that results are merged into.
//
// Trial division is naive: its cost grows with the square
// root of the largest prime factor, so a range of integers produces tasks of
// very uneven cost, which is what the partitioning strategies are compared on.
package factor

import (
	"strconv"
	"strings"
)

// Factors is the ordered list of prime factors of one number. It is empty for
// numbers below 2 and must not be modified once produced.
type Factors []uint64

// Factorize returns the prime factors of n in non-decreasing order.
// The product of the factors equals n; for n < 2 the result is empty.
func Factorize(n uint64) Factors {
	f, _ := factorize(n)
	return f
}

// Cost returns the number of trial divisions Factorize performs for n.
func Cost(n uint64) int {
	_, c := factorize(n)
	return c
}

// FactorizeCost returns Factorize(n) and Cost(n) in a single pass.
func FactorizeCost(n uint64) (Factors, int) {
	return factorize(n)
}

// IsPrime reports whether n is prime.
func IsPrime(n uint64) bool {
	return n >= 2 && len(Factorize(n)) == 1
}

func factorize(n uint64) (Factors, int) {
	if n < 2 {
		return Factors{}, 0
	}

	var (
		factors = Factors{}
		p       = uint64(2)
		steps   = 0
	)

	for n > 1 {
		steps++
		switch {
		case n%p == 0:
			factors = append(factors, p)
			n /= p
		case p > n/p:
			// p*p > n, and nothing below p divides n: n is prime.
			factors = append(factors, n)
			return factors, steps
		case p == 2:
			p = 3
		default:
			p += 2
		}
	}

	return factors, steps
}

// Product multiplies the factors back together. The empty list yields 1.
func (f Factors) Product() uint64 {
	product := uint64(1)
	for _, p := range f {
		product *= p
	}
	return product
}

// String renders the factors as "2·2·3"; the empty list renders as "-".
func (f Factors) String() string {
	if len(f) == 0 {
		return "-"
	}

	parts := make([]string, len(f))
	for i, p := range f {
		parts[i] = strconv.FormatUint(p, 10)
	}
	return strings.Join(parts, "·")
}
