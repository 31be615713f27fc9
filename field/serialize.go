package field

import "github.com/nume-crypto/isogs/bigint"

// ToBytes serializes e as its natural-domain residue, unsigned
// big-endian, padded to h.ByteLen() bytes (spec §6).
func (e *Element) ToBytes() ([]byte, error) {
	natural, err := e.ToNatural()
	if err != nil {
		return nil, err
	}
	return bigint.I2BSP(natural, e.h.bitLen)
}

// FromBytes deserializes a natural-domain residue produced by ToBytes,
// converting into this handle's representation.
func (h *Handle) FromBytes(b []byte) (*Element, error) {
	return h.FromNatural(bigint.BS2IP(b))
}
