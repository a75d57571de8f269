package interfaces

// Scorer maps a headline to a compound sentiment score in [-1, 1]. Implementations must be
// stateless between calls.
type Scorer interface {
	Compound(text string) float64
}
