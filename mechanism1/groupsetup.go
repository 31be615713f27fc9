package mechanism1

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
)

// PublicKey is the Mechanism-1 group public key of spec §3: modulus n
// and five QR(n) generators.
type PublicKey struct {
	N, A, A0, G, H, B *bigint.Int
}

// PrivateKey is the issuer's private factorization knowledge.
type PrivateKey struct {
	Pp, Qp *bigint.Int // p', q' such that p=2p'+1, q=2q'+1
}

// Factors reconstructs the safe primes p, q from their halves.
func (k *PrivateKey) Factors() (p, q *bigint.Int) {
	two := bigint.New(2)
	one := bigint.New(1)
	return k.Pp.Mul(two).Add(one), k.Qp.Mul(two).Add(one)
}

// Order returns p'*q', the order of QR(n).
func (k *PrivateKey) Order() *bigint.Int { return k.Pp.Mul(k.Qp) }

// safePrime draws a safe prime p = 2p'+1 of the given bit length,
// returning both p and p'.
func safePrime(bits int, rnd io.Reader) (p, pPrime *bigint.Int, err error) {
	for {
		pPrime, err = bigint.ProbablePrime(bits-1, rnd)
		if err != nil {
			return nil, nil, err
		}
		p = pPrime.Shl(1).Add(bigint.New(1))
		if isProbablePrime(p) {
			return p, pPrime, nil
		}
	}
}

func isProbablePrime(n *bigint.Int) bool {
	// NextProbablePrime(n-1) returns the smallest probable prime >= n;
	// n is prime iff that prime equals n.
	return n.Sub(bigint.New(1)).NextProbablePrime().Cmp(n) == 0
}

// quadraticResidueGenerator draws a random element of QR(n) distinct
// from every value already in `distinct`, by squaring a random unit.
func quadraticResidueGenerator(n *bigint.Int, distinct []*bigint.Int, rnd io.Reader) (*bigint.Int, error) {
	for {
		candidate, err := bigint.RandomBelow(n, rnd)
		if err != nil {
			return nil, err
		}
		if candidate.IsZero() {
			continue
		}
		sq, err := candidate.ModPow(bigint.New(2), n)
		if err != nil {
			return nil, err
		}
		if sq.IsZero() {
			continue
		}
		unique := true
		for _, d := range distinct {
			if d.Cmp(sq) == 0 {
				unique = false
				break
			}
		}
		if unique {
			return sq, nil
		}
	}
}

// GroupSetup draws safe primes p = 2p'+1, q = 2q'+1 of Lp bits each,
// sets n = p*q, and draws five pairwise-distinct QR(n) generators
// (spec §4.G "Group setup").
func GroupSetup(params Params, rnd io.Reader) (*PublicKey, *PrivateKey, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	p, pPrime, err := safePrime(params.Lp, rnd)
	if err != nil {
		return nil, nil, err
	}
	q, qPrime, err := safePrime(params.Lp, rnd)
	if err != nil {
		return nil, nil, err
	}
	if p.Cmp(q) == 0 {
		return nil, nil, schemeerr.Arithmeticf("mechanism1.GroupSetup", "drew identical safe primes, retry")
	}
	n := p.Mul(q)

	var generators []*bigint.Int
	for i := 0; i < 5; i++ {
		g, err := quadraticResidueGenerator(n, generators, rnd)
		if err != nil {
			return nil, nil, err
		}
		generators = append(generators, g)
	}

	pub := &PublicKey{
		N:  n,
		A:  generators[0],
		A0: generators[1],
		G:  generators[2],
		H:  generators[3],
		B:  generators[4],
	}
	priv := &PrivateKey{Pp: pPrime, Qp: qPrime}
	return pub, priv, nil
}

// inQR checks membership in QR(n) by verifying the Legendre symbol is
// +1 modulo each of the two prime factors (spec §4.G: "the issuer
// verifies C1 in QR(n) by checking both Legendre symbols mod p and mod
// q"). Callers that only hold n (not its factorization) cannot run
// this check; it is issuer-side only.
func inQR(c, p, q *bigint.Int) bool {
	cp, err := c.Mod(p)
	if err != nil {
		return false
	}
	cq, err := c.Mod(q)
	if err != nil {
		return false
	}
	return bigint.Jacobi(cp, p) == 1 && bigint.Jacobi(cq, q) == 1
}
