package curve

import (
	"github.com/nume-crypto/isogs/field"
	"github.com/nume-crypto/isogs/hashutil"
	"github.com/nume-crypto/isogs/towerfield"
)

// HashToPoint maps data to a point in the prime-order subgroup of G1
// via HBS2ECP followed by cofactor clearing (spec §4.D, §4.F).
func (f *FieldG1) HashToPoint(data []byte) (*AffineG1, error) {
	candidateY := func(x *field.Element) (*field.Element, error) {
		x2, err := x.Square()
		if err != nil {
			return nil, err
		}
		x3, err := x2.Mul(x)
		if err != nil {
			return nil, err
		}
		ax, err := f.A.Mul(x)
		if err != nil {
			return nil, err
		}
		rhs, err := x3.Add(ax)
		if err != nil {
			return nil, err
		}
		rhs, err = rhs.Add(f.B)
		if err != nil {
			return nil, err
		}
		return rhs.Sqrt()
	}
	x, y, err := hashutil.HBS2ECP(f.Fq, data, candidateY)
	if err != nil {
		return nil, err
	}
	pt := &AffineG1{Field: f, X: x, Y: y}
	return pt.ScalarMul(f.Cofactor)
}

// HashToPoint maps data to a point in the prime-order subgroup of G2,
// hashing onto the base field Fq and lifting to the twist coordinate a+0u
// before searching for a matching y in Fq2.
func (f *FieldG2) HashToPoint(data []byte) (*AffineG2, error) {
	for i := 0; ; i++ {
		if i >= 256 {
			return nil, errTooManyAttempts
		}
		xa, err := hashutil.HBS2PF2(f.Fq2.Base, append([]byte{byte(i)}, data...))
		if err != nil {
			return nil, err
		}
		x := towerfield.NewE2(f.Fq2, xa, f.Fq2.Base.Zero())
		x2, err := x.Square()
		if err != nil {
			return nil, err
		}
		x3, err := x2.Mul(x)
		if err != nil {
			return nil, err
		}
		ax, err := f.A.Mul(x)
		if err != nil {
			return nil, err
		}
		rhs, err := x3.Add(ax)
		if err != nil {
			return nil, err
		}
		rhs, err = rhs.Add(f.B)
		if err != nil {
			return nil, err
		}
		y, err := rhs.Sqrt()
		if err != nil {
			continue
		}
		pt := &AffineG2{Field: f, X: x, Y: y}
		return pt.ScalarMul(f.Cofactor)
	}
}
