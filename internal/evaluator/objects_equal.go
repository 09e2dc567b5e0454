package evaluator

// ValuesEqual performs a deep equality check. Numbers compare by value
// across the numeric tower, records by their fields, closures by identity.
func ValuesEqual(a, b Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if isNumber(a) && isNumber(b) {
		if isIntegral(a) && isIntegral(b) {
			return toInt(a) == toInt(b) && sameFields(a, b)
		}
		return toComplex(a) == toComplex(b) && sameFields(a, b)
	}
	// Lists and host arrays compare by their elements.
	if xs, ok := sequence(a); ok {
		if ys, ok := sequence(b); ok {
			return sameElements(xs, ys) && sameFields(a, b)
		}
	}
	if a.Tag() != b.Tag() {
		return false
	}

	switch aVal := a.(type) {
	case *Boolean:
		return aVal.Value == b.(*Boolean).Value && sameFields(a, b)
	case *String:
		return aVal.Value == b.(*String).Value && sameFields(a, b)
	case *Null, *Void:
		return true
	case *Closure:
		bVal := b.(*Closure)
		return aVal.Lambda == bVal.Lambda && sameFields(a, b)
	case *Undefined:
		return sameFields(a, b)
	}
	return false
}

func sequence(v Value) (Indexed, bool) {
	if _, ok := v.(*String); ok {
		return nil, false
	}
	seq, ok := v.(Indexed)
	return seq, ok
}

func sameElements(a, b Indexed) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		x, errA := a.Index(int64(i))
		y, errB := b.Index(int64(i))
		if errA != nil || errB != nil || !ValuesEqual(x, y) {
			return false
		}
	}
	return true
}

// sameFields compares the fields of two record-like values.
func sameFields(a, b Value) bool {
	ra, okA := a.(Record)
	rb, okB := b.(Record)
	if !okA || !okB {
		return okA == okB
	}
	namesA := ra.Fields().Names()
	namesB := rb.Fields().Names()
	if len(namesA) != len(namesB) {
		return false
	}
	for i, name := range namesA {
		if namesB[i] != name {
			return false
		}
		if !ValuesEqual(ra.Fields().Top(name), rb.Fields().Top(name)) {
			return false
		}
	}
	return true
}
