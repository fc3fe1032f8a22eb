package domain

const kgToLb = 2.2046226218

// ConvertUnit converts a value between "kg" and "lb". The second result is
// false, and v is returned unchanged, when the pair is not convertible.
func ConvertUnit(v float64, from, to string) (float64, bool) {
	switch {
	case from == to:
		return v, true
	case from == "kg" && to == "lb":
		return v * kgToLb, true
	case from == "lb" && to == "kg":
		return v / kgToLb, true
	}
	return v, false
}
