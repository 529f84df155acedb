package reactive

import (
	"math"
	"reflect"
)

// SameValue reports whether writing b over a is a no-op. NaN equals NaN,
// +0 and -0 differ, values of different dynamic types differ and values that
// cannot be compared are never the same.
func SameValue(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && sameFloat(x, y)
	case float32:
		y, ok := b.(float32)
		return ok && sameFloat(float64(x), float64(y))
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	if x == 0 && y == 0 {
		return math.Signbit(x) == math.Signbit(y)
	}
	return x == y
}

// safeEqual guards structs and arrays whose interface fields hold
// non-comparable values.
func safeEqual(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	if !reflect.TypeOf(v).Comparable() {
		return false
	}
	ok := true
	func() {
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		_ = map[any]struct{}{v: {}}
	}()
	return ok
}
