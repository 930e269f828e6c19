package annotate

import "github.com/dhamidi/tokenscope/token"

// assignLevels walks the scope-resolved stream once and gives every
// token its nesting depth and the ordered list of scope conditions
// enclosing it (outermost first).
//
// A scope begins at its scope-opener boundary marker: the marker and
// the opener keyword keep the pre-push depth, every token up to the
// closer sits one level deeper, and the closer pops before taking its
// own level so that it matches its opener's. A shared closer pops
// every scope ending there. Braceless bodies have no opener marker and
// therefore contribute no level; their boundary is still recorded on
// the opener's scope fields.
func (p *Pipeline) assignLevels(ts token.Stream) token.Stream {
	var conditions []int

	for i := range ts {
		for len(conditions) > 0 {
			cond := conditions[len(conditions)-1]
			if ts[cond].ScopeCloser != i {
				break
			}
			conditions = conditions[:len(conditions)-1]
		}

		ts[i].Level = len(conditions)
		if len(conditions) > 0 {
			ts[i].Conditions = append([]int(nil), conditions...)
		}

		if cond := ts[i].ScopeCondition; cond != token.None && ts[cond].ScopeOpener == i {
			conditions = append(conditions, cond)
		}
	}
	return ts
}
