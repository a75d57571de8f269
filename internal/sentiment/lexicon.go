package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	boosterIncrement = 0.293
	negationScalar   = -0.74
	capsIncrement    = 0.733
	exclaimIncrement = 0.292
	maxExclaims      = 4
	normalizeAlpha   = 15.0
)

// Lexicon is a rule-based headline scorer. Each known token contributes a valence on a
// -4..4 scale, adjusted by preceding boosters and negations, and the sum is squashed into
// [-1, 1]. It holds no mutable state and is safe for concurrent use.
type Lexicon struct {
	valence   map[string]float64
	boosters  map[string]float64
	negations map[string]bool
}

// NewLexicon returns a scorer loaded with the built-in finance headline vocabulary.
func NewLexicon() *Lexicon {
	return &Lexicon{
		valence:   loadValence(),
		boosters:  loadBoosters(),
		negations: loadNegations(),
	}
}

// WithWords returns a copy of l with extra or overriding valences.
func (l *Lexicon) WithWords(words map[string]float64) *Lexicon {
	out := &Lexicon{valence: make(map[string]float64, len(l.valence)+len(words)), boosters: l.boosters, negations: l.negations}
	for w, v := range l.valence {
		out.valence[w] = v
	}
	for w, v := range words {
		out.valence[strings.ToLower(w)] = v
	}
	return out
}

// Compound scores text into [-1, 1]. Text without known words scores 0.
func (l *Lexicon) Compound(text string) float64 {
	raw := tokenize(text)
	if len(raw) == 0 {
		return 0
	}
	words := make([]string, len(raw))
	for i, w := range raw {
		words[i] = strings.ToLower(w)
	}
	mixedCase := hasMixedCase(raw)

	scores := make([]float64, len(words))
	for i, w := range words {
		v, ok := l.valence[w]
		if !ok {
			continue
		}
		if mixedCase && isShouting(raw[i]) {
			v += math.Copysign(capsIncrement, v)
		}
		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := words[i-back]
			if b, ok := l.boosters[prev]; ok {
				inc := b * boosterIncrement
				switch back {
				case 2:
					inc *= 0.95
				case 3:
					inc *= 0.9
				}
				if v < 0 {
					inc = -inc
				}
				v += inc
			}
			if l.negated(prev) {
				v *= negationScalar
			}
		}
		scores[i] = v
	}

	// Clauses after "but" dominate the ones before it.
	for i, w := range words {
		if w != "but" {
			continue
		}
		for j := range scores {
			if j < i {
				scores[j] *= 0.5
			} else if j > i {
				scores[j] *= 1.5
			}
		}
		break
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if sum != 0 {
		n := strings.Count(text, "!")
		if n > maxExclaims {
			n = maxExclaims
		}
		sum += math.Copysign(float64(n)*exclaimIncrement, sum)
	}
	return normalize(sum)
}

func (l *Lexicon) negated(w string) bool {
	return l.negations[w] || strings.HasSuffix(w, "n't")
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normalizeAlpha)
	return math.Max(-1, math.Min(1, n))
}

func tokenize(text string) []string {
	var words []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '-' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			words = append(words, strings.Trim(cur.String(), "'-"))
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		words = append(words, strings.Trim(cur.String(), "'-"))
	}
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func isShouting(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 1
}

func hasMixedCase(words []string) bool {
	shouting := 0
	for _, w := range words {
		if isShouting(w) {
			shouting++
		}
	}
	return shouting > 0 && shouting < len(words)
}
