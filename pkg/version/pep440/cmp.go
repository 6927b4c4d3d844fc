package pep440

import (
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Cmp returns <0 if a sorts before b, >0 if a sorts after b, and 0 if they are equivalent
// under PEP 440 ordering.  An implicit pre-release number sorts as 0.
func (a PublicVersion) Cmp(b PublicVersion) int {
	if d := a.Epoch - b.Epoch; d != 0 {
		return d
	}
	// Release segments are padded with zeros to a consistent length.
	if d := cmpRelease(a, b); d != 0 {
		return d
	}
	// .devN, aN, bN, rcN, <no suffix>, .postN
	if d := cmpPreRelease(a, b); d != 0 {
		return d
	}
	// .devN, <no suffix>, .postN
	if d := cmpPostRelease(a, b); d != 0 {
		return d
	}
	// .devN, <no suffix>
	return cmpDevRelease(a, b)
}

// Cmp is like PublicVersion.Cmp, but also orders by the local version label.
func (a LocalVersion) Cmp(b LocalVersion) int {
	if d := a.PublicVersion.Cmp(b.PublicVersion); d != 0 {
		return d
	}
	return cmpLocal(a, b)
}

func cmpRelease(a, b PublicVersion) int {
	for i := 0; i < len(a.Release) || i < len(b.Release); i++ {
		if diff := a.releaseSegment(i) - b.releaseSegment(i); diff != 0 {
			return diff
		}
	}
	return 0
}

var preReleaseOrder = map[string]int{
	"a":  -3,
	"b":  -2,
	"rc": -1,
	// absent: 0,
}

func preKey(ver PublicVersion) (label, number int) {
	switch {
	case ver.Pre != nil:
		return preReleaseOrder[ver.Pre.L], ver.Pre.Number()
	case ver.Dev != nil && ver.Post == nil:
		// 1.0.dev1 sorts before 1.0a1
		return -4, 0
	default:
		return 0, 0
	}
}

func cmpPreRelease(a, b PublicVersion) int {
	aL, aN := preKey(a)
	bL, bN := preKey(b)
	if aL != bL {
		return aL - bL
	}
	return aN - bN
}

func cmpPostRelease(a, b PublicVersion) int {
	aPost := -1
	if a.Post != nil {
		aPost = *a.Post
	}
	bPost := -1
	if b.Post != nil {
		bPost = *b.Post
	}
	return aPost - bPost
}

func cmpDevRelease(a, b PublicVersion) int {
	switch {
	case a.Dev == nil && b.Dev == nil:
		return 0
	case a.Dev == nil && b.Dev != nil:
		return 1
	case a.Dev != nil && b.Dev == nil:
		return -1
	default:
		return (*a.Dev) - (*b.Dev)
	}
}

// cmpLocalSegment orders a missing segment first, then strings lexicographically, then
// integers numerically.
func cmpLocalSegment(a, b *intstr.IntOrString) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch {
	case a.Type == intstr.Int && b.Type == intstr.Int:
		return int(a.IntVal) - int(b.IntVal)
	case a.Type == intstr.String && b.Type == intstr.String:
		switch {
		case a.StrVal < b.StrVal:
			return -1
		case a.StrVal > b.StrVal:
			return 1
		}
		return 0
	case a.Type == intstr.Int:
		return 1
	default:
		return -1
	}
}

func cmpLocal(a, b LocalVersion) int {
	for i := 0; i < len(a.Local) || i < len(b.Local); i++ {
		var aSeg, bSeg *intstr.IntOrString
		if i < len(a.Local) {
			aSeg = &(a.Local[i])
		}
		if i < len(b.Local) {
			bSeg = &(b.Local[i])
		}
		if d := cmpLocalSegment(aSeg, bSeg); d != 0 {
			return d
		}
	}
	return 0
}
