package curve

import "github.com/nume-crypto/isogs/schemeerr"

var errTooManyAttempts = schemeerr.Arithmeticf("curve.HashToPoint", "no valid point found within attempt budget")
