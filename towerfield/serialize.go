package towerfield

// ToBytes serializes e as A||B, each padded to the base field's byte
// length (spec §6, "components' unsigned big-endian encodings
// concatenated in coefficient order").
func (e *E2) ToBytes() ([]byte, error) {
	a, err := e.A.ToBytes()
	if err != nil {
		return nil, err
	}
	b, err := e.B.ToBytes()
	if err != nil {
		return nil, err
	}
	return append(a, b...), nil
}

// FromBytes parses an E2 from exactly 2*base.ByteLen() bytes.
func (h *QuadraticHandle) FromBytes(b []byte) (*E2, error) {
	n := h.Base.ByteLen()
	a, err := h.Base.FromBytes(b[:n])
	if err != nil {
		return nil, err
	}
	bb, err := h.Base.FromBytes(b[n : 2*n])
	if err != nil {
		return nil, err
	}
	return &E2{H: h, A: a, B: bb}, nil
}

func (e *E6) ToBytes() ([]byte, error) {
	a, err := e.A.ToBytes()
	if err != nil {
		return nil, err
	}
	b, err := e.B.ToBytes()
	if err != nil {
		return nil, err
	}
	c, err := e.C.ToBytes()
	if err != nil {
		return nil, err
	}
	out := append(a, b...)
	return append(out, c...), nil
}

func (h *CubicHandle) FromBytes(b []byte) (*E6, error) {
	n := 2 * h.Base.Base.ByteLen()
	a, err := h.Base.FromBytes(b[:n])
	if err != nil {
		return nil, err
	}
	bb, err := h.Base.FromBytes(b[n : 2*n])
	if err != nil {
		return nil, err
	}
	c, err := h.Base.FromBytes(b[2*n : 3*n])
	if err != nil {
		return nil, err
	}
	return &E6{H: h, A: a, B: bb, C: c}, nil
}

func (e *E12) ToBytes() ([]byte, error) {
	x0, err := e.X0.ToBytes()
	if err != nil {
		return nil, err
	}
	x1, err := e.X1.ToBytes()
	if err != nil {
		return nil, err
	}
	return append(x0, x1...), nil
}

func (h *DodecaHandle) FromBytes(b []byte) (*E12, error) {
	n := 3 * 2 * h.Base.Base.Base.ByteLen()
	x0, err := h.Base.FromBytes(b[:n])
	if err != nil {
		return nil, err
	}
	x1, err := h.Base.FromBytes(b[n : 2*n])
	if err != nil {
		return nil, err
	}
	return &E12{H: h, X0: x0, X1: x1}, nil
}
