package alphabet

import (
	"testing"

	"github.com/dekarrin/mata/internal/core/merr"
	"github.com/stretchr/testify/assert"
)

func Test_IntAlphabet_TranslateRoundTrip(t *testing.T) {
	assert := assert.New(t)

	a := NewIntAlphabet()

	sym, err := a.TranslateName("42")
	if !assert.NoError(err) {
		return
	}
	name, err := a.TranslateSymbol(sym)
	if assert.NoError(err) {
		assert.Equal("42", name)
	}

	_, err = a.TranslateName("not-a-number")
	assert.ErrorIs(err, merr.InvalidArgument)
}

func Test_EnumAlphabet_ClosedEnumeration(t *testing.T) {
	assert := assert.New(t)

	a := NewEnumAlphabet("a", "b", "c")

	sym, err := a.TranslateName("b")
	if !assert.NoError(err) {
		return
	}

	name, err := a.TranslateSymbol(sym)
	if assert.NoError(err) {
		assert.Equal("b", name)
	}

	_, err = a.TranslateName("z")
	assert.ErrorIs(err, merr.NotFound)

	_, err = a.RegisterNew("z")
	assert.ErrorIs(err, merr.Unsupported)

	same, err := a.RegisterNew("a")
	if assert.NoError(err) {
		a2, _ := a.TranslateName("a")
		assert.Equal(a2, same)
	}
}

func Test_OnTheFlyAlphabet_MintsOnFirstUse(t *testing.T) {
	assert := assert.New(t)

	a := NewOnTheFlyAlphabet()

	first, err := a.TranslateName("hello")
	if !assert.NoError(err) {
		return
	}
	second, err := a.TranslateName("hello")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(first, second)

	other, err := a.TranslateName("world")
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(first, other)
	assert.Len(a.Symbols(), 2)
}

// Test_OnTheFlyAlphabet_NFCNormalization checks that a name built from "e"
// plus a combining acute accent (decomposed form) resolves to the same
// symbol as the single precomposed code point, since both are folded to
// Unicode NFC before use as a map key.
func Test_OnTheFlyAlphabet_NFCNormalization(t *testing.T) {
	assert := assert.New(t)

	a := NewOnTheFlyAlphabet()

	decomposed := "é"
	precomposed := "é"
	assert.NotEqual(decomposed, precomposed, "test fixture must use two distinct byte sequences")

	symDecomposed, err := a.TranslateName(decomposed)
	if !assert.NoError(err) {
		return
	}
	symPrecomposed, err := a.TranslateName(precomposed)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(symDecomposed, symPrecomposed, "both Unicode normalization forms of the same character should resolve to one symbol")
	assert.Len(a.Symbols(), 1)
}

func Test_EnumAlphabet_NFCNormalization(t *testing.T) {
	assert := assert.New(t)

	decomposed := "é"
	precomposed := "é"

	a := NewEnumAlphabet(decomposed, "b")

	sym, err := a.TranslateName(precomposed)
	if !assert.NoError(err) {
		return
	}
	name, err := a.TranslateSymbol(sym)
	if assert.NoError(err) {
		assert.Equal(precomposed, name)
	}
}
