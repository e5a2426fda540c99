package testutil

// FixedGUID returns the same identifier every time.
//
// This keeps harness traces byte-identical across runs. Unlike
// guid.Sequence, which returns ids in order, FixedGUID never runs out.
//
// Thread-safety: FixedGUID is stateless and safe for concurrent use.
type FixedGUID struct {
	id string
}

// NewFixedGUID creates a generator returning id.
// If id is empty, Generate() returns "00000000-0000-0000-0000-000000000000".
func NewFixedGUID(id string) *FixedGUID {
	if id == "" {
		id = "00000000-0000-0000-0000-000000000000"
	}
	return &FixedGUID{id: id}
}

// Generate returns the fixed identifier.
func (g *FixedGUID) Generate() string {
	return g.id
}
