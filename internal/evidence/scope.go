package evidence

import "fmt"

// Scope selects which evidence regions a question runs against.
type Scope string

const (
	ScopeDomestic Scope = "domestic"
	ScopeForeign  Scope = "foreign"
	ScopeBoth     Scope = "both"
)

// ParseScope validates a raw scope value from the API.
func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case ScopeDomestic, ScopeForeign, ScopeBoth:
		return Scope(raw), nil
	case "":
		return ScopeBoth, nil
	}
	return "", fmt.Errorf("invalid scope %q", raw)
}

// IncludesDomestic reports whether domestic sources are in scope.
func (s Scope) IncludesDomestic() bool {
	return s == ScopeDomestic || s == ScopeBoth
}

// IncludesForeign reports whether foreign sources are in scope.
func (s Scope) IncludesForeign() bool {
	return s == ScopeForeign || s == ScopeBoth
}
