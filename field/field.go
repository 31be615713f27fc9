// Package field implements the single- and double-precision prime field
// Fq described in spec §4.B: add/sub/mul/square/invert/sqrt, the halving
// shortcuts, an optional Montgomery representation, and element pooling.
//
// Residues are backed by bigint.Int (itself backed by math/big) rather
// than fixed-width limb arrays — the scheme-identifier grammar of spec §6
// distinguishes a "bigint" representation from a "fixedwidth" one, and
// this package is the bigint variant; party.ParseSchemeID selects it.
package field

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/internal/pool"
	"github.com/nume-crypto/isogs/schemeerr"
)

const poolCapacity = 64

// Handle carries the modulus and the derived constants every element of
// this field needs: q, ceil((q+1)/2) (halving), floor((q+1)/4) (sqrt when
// q = 3 mod 4), a lazily-chosen non-quadratic-residue cache for
// Tonelli-Shanks, and Qn = q * 2^bitlen(q) (additive buffer avoiding
// underflow in double-precision subtraction, spec §3).
type Handle struct {
	Q        *bigint.Int
	bitLen   int
	halfQ    *bigint.Int
	quarterQ *bigint.Int
	qn       *bigint.Int
	mont     bool
	r        *bigint.Int // 2^bitLen mod q
	rInv     *bigint.Int // R^-1 mod q
	rSq      *bigint.Int // R^2 mod q, used to enter Montgomery domain
	nqr      *bigint.Int // cached non-quadratic-residue, nil until first sqrt call

	pool1 *pool.Pool[Element]
	pool2 *pool.Pool[DoubleElement]
}

// NewHandle builds a field handle for modulus q. montgomery selects the
// Montgomery representation; both representations expose the identical
// operation surface (spec §4.B).
func NewHandle(q *bigint.Int, montgomery bool) (*Handle, error) {
	if q.Sign() <= 0 {
		return nil, schemeerr.Parameterf("field.NewHandle", "modulus must be positive")
	}
	bitLen := q.BitLen()
	one := bigint.New(1)
	two := bigint.New(2)

	halfQ, _, _ := q.Add(one).DivMod(two)
	quarterQ, _, err := q.Add(one).DivMod(bigint.New(4))
	if err != nil {
		return nil, err
	}

	h := &Handle{
		Q:        q.Clone(),
		bitLen:   bitLen,
		halfQ:    halfQ,
		quarterQ: quarterQ,
		qn:       q.Mul(bigint.New(1).Shl(uint(bitLen))),
		mont:     montgomery,
	}

	if montgomery {
		r := bigint.New(1).Shl(uint(bitLen))
		rMod, err := r.Mod(q)
		if err != nil {
			return nil, err
		}
		rInv, err := rMod.ModInverse(q)
		if err != nil {
			return nil, schemeerr.Arithmeticf("field.NewHandle", "modulus not coprime to Montgomery R: %v", err)
		}
		rSq, err := rMod.Mul(rMod).Mod(q)
		if err != nil {
			return nil, err
		}
		h.r = rMod
		h.rInv = rInv
		h.rSq = rSq
	}

	h.pool1 = pool.New(poolCapacity, func() *Element { return &Element{h: h} })
	h.pool2 = pool.New(poolCapacity, func() *DoubleElement { return &DoubleElement{h: h} })
	return h, nil
}

// BitLen returns bitlen(q).
func (h *Handle) BitLen() int { return h.bitLen }

// ByteLen returns ceil(bitlen(q)/8), the serialized width of one element.
func (h *Handle) ByteLen() int { return (h.bitLen + 7) / 8 }

// IsMontgomery reports whether this handle represents elements in the
// Montgomery domain.
func (h *Handle) IsMontgomery() bool { return h.mont }

// Element is a field element: a residue in [0,q) in the natural domain,
// or in [0,q) representing x*R mod q in the Montgomery domain.
type Element struct {
	h *Handle
	v *bigint.Int
}

// DoubleElement holds a residue in [0, q^2), deferring reduction — the
// target of mulDouble/squareDouble.
type DoubleElement struct {
	h *Handle
	v *bigint.Int
}

// Zero returns the additive identity of h, in whichever domain h uses.
func (h *Handle) Zero() *Element { return &Element{h: h, v: bigint.Zero()} }

// One returns the multiplicative identity, in whichever domain h uses.
func (h *Handle) One() *Element {
	if h.mont {
		return &Element{h: h, v: h.r.Clone()}
	}
	return &Element{h: h, v: bigint.New(1)}
}

// FromNatural builds an element from a residue given in the natural
// (non-Montgomery) domain, converting into the Montgomery domain if h
// requires it.
func (h *Handle) FromNatural(v *bigint.Int) (*Element, error) {
	nv, err := v.Mod(h.Q)
	if err != nil {
		return nil, err
	}
	if !h.mont {
		return &Element{h: h, v: nv}, nil
	}
	mv, err := h.montMul(nv, h.rSq)
	if err != nil {
		return nil, err
	}
	return &Element{h: h, v: mv}, nil
}

// ToNatural returns the element's value in the natural domain regardless
// of the handle's representation.
func (e *Element) ToNatural() (*bigint.Int, error) {
	if !e.h.mont {
		return e.v.Clone(), nil
	}
	return e.h.montMul(e.v, bigint.New(1))
}

// Acquire borrows a blank element from h's pool (spec §5 pool discipline).
func (h *Handle) Acquire() (*Element, error) { return h.pool1.Acquire() }

// Release returns e to h's pool.
func (h *Handle) Release(e *Element) error {
	if e == nil {
		return nil
	}
	return e.h.pool1.Release(e)
}

// AcquireDouble/ReleaseDouble mirror Acquire/Release for double-precision
// elements.
func (h *Handle) AcquireDouble() (*DoubleElement, error) { return h.pool2.Acquire() }
func (h *Handle) ReleaseDouble(e *DoubleElement) error {
	if e == nil {
		return nil
	}
	return e.h.pool2.Release(e)
}

// Clone returns an independent copy of e.
func (e *Element) Clone() *Element { return &Element{h: e.h, v: e.v.Clone()} }

// IsZero reports whether e is the additive identity.
func (e *Element) IsZero() bool { return e.v.IsZero() }

// Equal compares two elements of the same handle for residue equality.
func (e *Element) Equal(o *Element) bool { return e.v.Equal(o.v) }

// montMul computes a*b*R^-1 mod q, the Montgomery product. Since this
// package is backed by bigint rather than fixed-width limbs, the "CIOS"
// reduction becomes a direct mod + modular-inverse multiplication by
// R^-1; functionally equivalent, not limb-optimized.
func (h *Handle) montMul(a, b *bigint.Int) (*bigint.Int, error) {
	prod, err := a.Mul(b).Mod(h.Q)
	if err != nil {
		return nil, err
	}
	return prod.Mul(h.rInv).Mod(h.Q)
}

// Add returns e+o.
func (e *Element) Add(o *Element) (*Element, error) {
	v, err := e.v.Add(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	return &Element{h: e.h, v: v}, nil
}

// AddInto is the in-place flavor: it mutates e and returns it (spec §5,
// "in-place flavors are the default inside hot loops").
func (e *Element) AddInto(o *Element) (*Element, error) {
	v, err := e.v.Add(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	e.v = v
	return e, nil
}

// AddNoReduce returns e+o without reducing mod q, producing a value in
// [0, 2q); callers must reduce before comparison (spec §4.B).
func (e *Element) AddNoReduce(o *Element) *Element { return &Element{h: e.h, v: e.v.Add(o.v)} }

// Sub returns e-o.
func (e *Element) Sub(o *Element) (*Element, error) {
	v, err := e.v.Sub(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	return &Element{h: e.h, v: v}, nil
}

func (e *Element) SubInto(o *Element) (*Element, error) {
	v, err := e.v.Sub(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	e.v = v
	return e, nil
}

// SubNoReduce returns e-o without reducing, which may be negative; callers
// must reduce before comparison.
func (e *Element) SubNoReduce(o *Element) *Element { return &Element{h: e.h, v: e.v.Sub(o.v)} }

// SubOpt1 adds Qn before subtracting o, so the intermediate value never
// underflows — the shortcut the tower-level multiplication relies on
// (spec §4.B, §4.C).
func (e *Element) SubOpt1(o *Element) (*Element, error) {
	buffered := e.v.Add(e.h.qn)
	v, err := buffered.Sub(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	return &Element{h: e.h, v: v}, nil
}

// Negate returns -e mod q.
func (e *Element) Negate() (*Element, error) {
	if e.IsZero() {
		return e.h.Zero(), nil
	}
	v, err := e.h.Q.Sub(e.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	return &Element{h: e.h, v: v}, nil
}

// Mul returns e*o, dispatching to Montgomery multiplication when the
// handle is in the Montgomery domain.
func (e *Element) Mul(o *Element) (*Element, error) {
	if e.h.mont {
		v, err := e.h.montMul(e.v, o.v)
		if err != nil {
			return nil, err
		}
		return &Element{h: e.h, v: v}, nil
	}
	v, err := e.v.Mul(o.v).Mod(e.h.Q)
	if err != nil {
		return nil, err
	}
	return &Element{h: e.h, v: v}, nil
}

func (e *Element) MulInto(o *Element) (*Element, error) {
	r, err := e.Mul(o)
	if err != nil {
		return nil, err
	}
	e.v = r.v
	return e, nil
}

// Square returns e*e; must equal Mul(e,e) (spec §8 testable property).
func (e *Element) Square() (*Element, error) { return e.Mul(e) }

// Pow returns e^k for a non-negative exponent k, by square-and-multiply
// in whichever domain the handle uses (Montgomery multiplication composes
// correctly under repeated squaring).
func (e *Element) Pow(k *bigint.Int) (*Element, error) {
	result := e.h.One()
	base := e.Clone()
	for i := 0; i < k.BitLen(); i++ {
		if k.TestBit(i) == 1 {
			var err error
			result, err = result.Mul(base)
			if err != nil {
				return nil, err
			}
		}
		var err error
		base, err = base.Square()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Invert returns e^-1 via modular inverse on the natural-domain residue;
// fails with an ArithmeticError when e is not invertible (i.e. is zero,
// since q is prime).
func (e *Element) Invert() (*Element, error) {
	natural, err := e.ToNatural()
	if err != nil {
		return nil, err
	}
	inv, err := natural.ModInverse(e.h.Q)
	if err != nil {
		return nil, schemeerr.Arithmeticf("field.Invert", "element not invertible: %v", err)
	}
	return e.h.FromNatural(inv)
}

// Twice returns 2*e.
func (e *Element) Twice() (*Element, error) { return e.Add(e) }

// DivByTwo returns e/2: an even natural residue is halved directly, an
// odd one has q added first so that the sum is even.
func (e *Element) DivByTwo() (*Element, error) {
	natural, err := e.ToNatural()
	if err != nil {
		return nil, err
	}
	var half *bigint.Int
	if natural.TestBit(0) == 0 {
		half, _, err = natural.DivMod(bigint.New(2))
		if err != nil {
			return nil, err
		}
	} else {
		sum := natural.Add(e.h.Q)
		half, _, err = sum.DivMod(bigint.New(2))
		if err != nil {
			return nil, err
		}
	}
	return e.h.FromNatural(half)
}

// DivByFour returns e/4 by halving twice.
func (e *Element) DivByFour() (*Element, error) {
	half, err := e.DivByTwo()
	if err != nil {
		return nil, err
	}
	return half.DivByTwo()
}

// Legendre returns the Legendre symbol of e's natural residue mod q: -1,
// 0, or +1.
func (e *Element) Legendre() (int, error) {
	natural, err := e.ToNatural()
	if err != nil {
		return 0, err
	}
	return bigint.Jacobi(natural, e.h.Q), nil
}

// ensureNQR lazily picks a non-quadratic-residue for Tonelli-Shanks,
// caching it on the handle (spec §3, "non-quadratic residue cache
// (lazily chosen)").
func (h *Handle) ensureNQR() (*bigint.Int, error) {
	if h.nqr != nil {
		return h.nqr, nil
	}
	candidate := bigint.New(2)
	for {
		if bigint.Jacobi(candidate, h.Q) == -1 {
			h.nqr = candidate
			return h.nqr, nil
		}
		candidate = candidate.Add(bigint.New(1))
	}
}

// Sqrt computes a square root of e via Tonelli-Shanks using the cached
// non-quadratic residue, returning an ArithmeticError ("no root") when the
// Legendre symbol is not +1.
func (e *Element) Sqrt() (*Element, error) {
	leg, err := e.Legendre()
	if err != nil {
		return nil, err
	}
	if leg == 0 {
		return e.h.Zero(), nil
	}
	if leg != 1 {
		return nil, schemeerr.Arithmeticf("field.Sqrt", "no square root: Legendre symbol != +1")
	}

	natural, err := e.ToNatural()
	if err != nil {
		return nil, err
	}

	// Fast path: q = 3 (mod 4) => sqrt = e^((q+1)/4).
	three := bigint.New(3)
	if _, rem, _ := e.h.Q.DivMod(bigint.New(4)); rem.Equal(three) {
		root, err := natural.ModPow(e.h.quarterQ, e.h.Q)
		if err != nil {
			return nil, err
		}
		return e.h.FromNatural(root)
	}

	return e.tonelliShanks(natural)
}

// tonelliShanks implements the general case, used when q = 1 (mod 4).
func (e *Element) tonelliShanks(n *bigint.Int) (*Element, error) {
	h := e.h
	qMinus1 := h.Q.Sub(bigint.New(1))
	s := 0
	qexp := qMinus1.Clone()
	for qexp.TestBit(0) == 0 {
		qexp = qexp.Shr(1)
		s++
	}

	nqr, err := h.ensureNQR()
	if err != nil {
		return nil, err
	}

	c, err := nqr.ModPow(qexp, h.Q)
	if err != nil {
		return nil, err
	}
	half := qexp.Add(bigint.New(1)).Shr(1)
	r, err := n.ModPow(half, h.Q)
	if err != nil {
		return nil, err
	}
	t, err := n.ModPow(qexp, h.Q)
	if err != nil {
		return nil, err
	}
	m := s

	for {
		if t.Equal(bigint.New(1)) {
			return h.FromNatural(r)
		}
		i := 0
		tt := t.Clone()
		for !tt.Equal(bigint.New(1)) {
			tt, err = tt.Mul(tt).Mod(h.Q)
			if err != nil {
				return nil, err
			}
			i++
			if i >= m {
				return nil, schemeerr.Arithmeticf("field.Sqrt", "tonelli-shanks failed to converge")
			}
		}
		b := c.Clone()
		for j := 0; j < m-i-1; j++ {
			b, err = b.Mul(b).Mod(h.Q)
			if err != nil {
				return nil, err
			}
		}
		r, err = r.Mul(b).Mod(h.Q)
		if err != nil {
			return nil, err
		}
		b2, err := b.Mul(b).Mod(h.Q)
		if err != nil {
			return nil, err
		}
		t, err = t.Mul(b2).Mod(h.Q)
		if err != nil {
			return nil, err
		}
		c = b2
		m = i
	}
}

// MulDouble returns a*b as a DoubleElement, deferring reduction (spec
// §4.B: "mulDouble and squareDouble producing a double-precision
// element").
func (e *Element) MulDouble(o *Element) (*DoubleElement, error) {
	ea, err := e.ToNatural()
	if err != nil {
		return nil, err
	}
	eb, err := o.ToNatural()
	if err != nil {
		return nil, err
	}
	return &DoubleElement{h: e.h, v: ea.Mul(eb)}, nil
}

// SquareDouble returns e*e as a DoubleElement.
func (e *Element) SquareDouble() (*DoubleElement, error) { return e.MulDouble(e) }

// Mod reduces a DoubleElement back to a single-precision Element.
func (d *DoubleElement) Mod() (*Element, error) {
	v, err := d.v.Mod(d.h.Q)
	if err != nil {
		return nil, err
	}
	return d.h.FromNatural(v)
}

// Add returns the sum of two double-precision elements without
// intermediate reduction.
func (d *DoubleElement) Add(o *DoubleElement) *DoubleElement {
	return &DoubleElement{h: d.h, v: d.v.Add(o.v)}
}

// Sub returns the (possibly negative) difference of two double-precision
// elements.
func (d *DoubleElement) Sub(o *DoubleElement) *DoubleElement {
	return &DoubleElement{h: d.h, v: d.v.Sub(o.v)}
}
