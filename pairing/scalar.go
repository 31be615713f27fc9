package pairing

import "github.com/nume-crypto/isogs/bigint"

func bigintSix() *bigint.Int { return bigint.New(6) }
func bigintTwo() *bigint.Int { return bigint.New(2) }

// bigintBitsMSBFirst returns the bits of n, most significant first,
// with no leading-zero padding (n=0 yields a single false bit).
func bigintBitsMSBFirst(n *bigint.Int) []bool {
	l := n.BitLen()
	if l == 0 {
		return []bool{false}
	}
	bits := make([]bool, l)
	for i := 0; i < l; i++ {
		bits[l-1-i] = n.TestBit(i) == 1
	}
	return bits
}
