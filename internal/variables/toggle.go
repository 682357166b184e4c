package variables

// Toggle cycles name through candidates and reports whether the value changed.
//
// Without candidates, numeric variables flip between 0 and 1 and string variables are
// cleared when non-empty. With candidates, the value moves to the entry after the one
// that matches the current text exactly, wrapping at the end; a value that matches no
// candidate moves to the first one. Unknown names become user string variables.
func (r *Registry) Toggle(name string, candidates []string) bool {
	if name == "" {
		return false
	}

	// An unknown name reads as an empty string; Set creates it only when the
	// value actually changes.
	v, ok := r.vars[name]
	if !ok {
		v = &Variable{name: name, kind: KindString, value: StringValue("")}
	}
	if v.constant {
		return false
	}

	current := v.Value()

	var next string
	if len(candidates) == 0 {
		switch v.kind {
		case KindInt, KindFloat:
			if current.IsZero() {
				next = "1"
			} else {
				next = "0"
			}
		default:
			if current.Str == "" {
				return false
			}
			next = ""
		}
	} else {
		next = candidates[0]
		text := current.String()
		for i, c := range candidates {
			if c == text {
				next = candidates[(i+1)%len(candidates)]
				break
			}
		}
	}

	if next == current.String() {
		return false
	}
	return r.Set(name, next)
}
