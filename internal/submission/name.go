package submission

import "strings"

// Name is a display name split into first and last parts.
type Name struct {
	First   string
	Last    string
	HasLast bool // false when the name had a single token
}

// SplitName splits a free-text name positionally: the first whitespace
// token is the first name, the second the last name, and any further tokens
// are dropped. A single-token name has no last name; an empty name yields
// the zero Name.
func SplitName(full string) Name {
	tokens := strings.Fields(full)
	var n Name
	if len(tokens) > 0 {
		n.First = tokens[0]
	}
	if len(tokens) > 1 {
		n.Last = tokens[1]
		n.HasLast = true
	}
	return n
}
