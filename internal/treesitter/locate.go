package treesitter

// EnclosingMethod returns the span of the innermost function-like node that
// contains the 1-indexed line, or nil when no such node exists.
//
// All matches are scanned once. A match containing the line replaces the
// current best when its span is nested inside (or equal to) the best span,
// so a callback inside a method wins over the method itself.
func (t *SourceTree) EnclosingMethod(cursor int) (*Range, error) {
	qs, err := t.compileAll(functionPatterns())
	if err != nil {
		return nil, err
	}
	defer closeAll(qs)

	var best *Range
	for _, m := range runQueries(qs, t.root, t.src) {
		node := m.captures[capFunc]
		if node == nil {
			continue
		}
		r := nodeRange(node)
		if !r.Contains(cursor) {
			continue
		}
		if best == nil || r.Within(*best) {
			best = &r
		}
	}
	return best, nil
}
