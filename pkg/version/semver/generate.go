package semver

import (
	"math/rand"
	"reflect"
	"testing/quick"
)

func randIdentifier(rand *rand.Rand) Identifier {
	if rand.Intn(2) == 0 {
		return NumericIdentifier(uint64(rand.Intn(3000)))
	}
	const (
		alpha    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-"
		alphadig = alpha + "0123456789"
	)
	buf := make([]byte, 1+rand.Intn(8))
	for i := range buf {
		if i == 0 {
			buf[i] = alpha[rand.Intn(len(alpha))]
		} else {
			buf[i] = alphadig[rand.Intn(len(alphadig))]
		}
	}
	return StringIdentifier(string(buf))
}

func (ver Version) Generate(rand *rand.Rand, size int) reflect.Value {
	ver.Major = uint64(rand.Intn(3000))
	ver.Minor = uint64(rand.Intn(3000))
	ver.Patch = uint64(rand.Intn(3000))
	if size < 1 {
		size = 1
	}
	if rand.Intn(2) == 0 {
		ver.Pre = make([]Identifier, 1+rand.Intn(size%6+1))
		for i := range ver.Pre {
			ver.Pre[i] = randIdentifier(rand)
		}
	}
	if rand.Intn(2) == 0 {
		ver.Build = make([]Identifier, 1+rand.Intn(size%4+1))
		for i := range ver.Build {
			ver.Build[i] = randIdentifier(rand)
		}
	}
	return reflect.ValueOf(ver)
}

var _ quick.Generator = Version{}
