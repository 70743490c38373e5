package pagination

// OffsetGuard remembers which offsets were already requested in the current
// pagination session.
type OffsetGuard struct {
	seen map[int]struct{}
}

func NewOffsetGuard() *OffsetGuard {
	return &OffsetGuard{seen: make(map[int]struct{})}
}

// Claim marks offset as requested. It returns false if it was already claimed.
func (g *OffsetGuard) Claim(offset int) bool {
	if _, ok := g.seen[offset]; ok {
		return false
	}
	g.seen[offset] = struct{}{}
	return true
}

// Release forgets offset so that a failed fetch can be retried.
func (g *OffsetGuard) Release(offset int) {
	delete(g.seen, offset)
}

func (g *OffsetGuard) Reset() {
	g.seen = make(map[int]struct{})
}
