package section

// Locatable is any record with a plan-view position.
type Locatable interface {
	Location() Point
}

// Projected pairs a copied record with its along-section coordinate.
type Projected[T Locatable] struct {
	Record T
	YProj  float64
}

// Slice returns copies of the records inside s, in input order, each with
// its projection. records is not modified.
func Slice[T Locatable](records []T, s Section) []Projected[T] {
	out := make([]Projected[T], 0)
	for _, rec := range records {
		loc := rec.Location()
		if !s.Contains(loc) {
			continue
		}
		out = append(out, Projected[T]{Record: rec, YProj: s.Project(loc)})
	}
	return out
}
