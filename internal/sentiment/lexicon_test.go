package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconPolarity(t *testing.T) {
	l := NewLexicon()

	assert.Greater(t, l.Compound("Acme beats estimates, shares surge"), 0.3)
	assert.Less(t, l.Compound("Acme misses estimates, shares plunge"), -0.3)
	assert.Equal(t, 0.0, l.Compound("Acme to hold annual meeting on Tuesday"))
	assert.Equal(t, 0.0, l.Compound(""))
}

func TestLexiconNegationFlipsSign(t *testing.T) {
	l := NewLexicon()

	assert.Greater(t, l.Compound("results were good"), 0.0)
	assert.Less(t, l.Compound("results were not good"), 0.0)
	assert.Less(t, l.Compound("results weren't good"), 0.0)
}

func TestLexiconIntensifiers(t *testing.T) {
	l := NewLexicon()
	base := l.Compound("strong quarter")

	assert.Greater(t, l.Compound("very strong quarter"), base)
	assert.Less(t, l.Compound("slightly strong quarter"), base)
	assert.Greater(t, l.Compound("strong quarter!!"), base)
	assert.Greater(t, l.Compound("STRONG quarter"), base)
}

func TestLexiconButShiftsWeight(t *testing.T) {
	l := NewLexicon()
	assert.Less(t, l.Compound("revenue growth but weak outlook and losses"), 0.0)
}

func TestLexiconBounded(t *testing.T) {
	l := NewLexicon()
	text := "great great great excellent success win strong record surge soar!!!!!!"
	v := l.Compound(text)
	assert.LessOrEqual(t, v, 1.0)
	assert.Greater(t, v, 0.9)
}

func TestWithWordsOverrides(t *testing.T) {
	l := NewLexicon().WithWords(map[string]float64{"Moon": 3})
	assert.Greater(t, l.Compound("to the moon"), 0.0)
	assert.Equal(t, 0.0, NewLexicon().Compound("to the moon"))
}
