package polytope

import "fmt"

// ValidationError describes one inconsistency in an element list.
type ValidationError struct {
	Rank    int
	Index   int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %d: %s", ElementName(e.Rank, false), e.Index, e.Message)
}

// Validate checks that every vertex has SpaceDimensions coordinates and
// that every element references existing elements of the rank below.
// It returns nil for a consistent polytope.
func (p *Polytope) Validate() []ValidationError {
	var errs []ValidationError

	for i, v := range p.Vertices {
		if v.Dimensions() != p.SpaceDimensions {
			errs = append(errs, ValidationError{
				Rank: 0, Index: i,
				Message: fmt.Sprintf("has %d coordinates, want %d", v.Dimensions(), p.SpaceDimensions),
			})
		}
	}

	for r := 1; r <= p.Dimensions(); r++ {
		below := p.Count(r - 1)
		for i, el := range p.Elements[r] {
			if len(el) == 0 {
				errs = append(errs, ValidationError{Rank: r, Index: i, Message: "has no facets"})
				continue
			}
			for _, f := range el {
				if f < 0 || f >= below {
					errs = append(errs, ValidationError{
						Rank: r, Index: i,
						Message: fmt.Sprintf("references missing %s %d", ElementName(r-1, false), f),
					})
				}
			}
		}
	}

	if p.Dimensions() >= 1 {
		for i, e := range p.Elements[1] {
			if len(e) != 2 {
				errs = append(errs, ValidationError{Rank: 1, Index: i, Message: fmt.Sprintf("has %d vertices", len(e))})
			}
		}
	}
	return errs
}
