package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OrdSet_AddRemoveHas(t *testing.T) {
	assert := assert.New(t)

	s := NewOrdSet[State](3, 1, 2, 1)
	assert.Equal(3, s.Len())
	assert.True(s.Has(1))
	assert.True(s.Has(2))
	assert.True(s.Has(3))
	assert.Equal([]State{1, 2, 3}, s.Elements())

	assert.True(s.Remove(2))
	assert.False(s.Has(2))
	assert.False(s.Remove(2))
}

func Test_OrdSet_UnionIntersectionDifference(t *testing.T) {
	assert := assert.New(t)

	a := NewOrdSet[State](1, 2, 3)
	b := NewOrdSet[State](2, 3, 4)

	assert.Equal([]State{1, 2, 3, 4}, a.Union(b).Elements())
	assert.Equal([]State{2, 3}, a.Intersection(b).Elements())
	assert.Equal([]State{1}, a.Difference(b).Elements())
	assert.True(a.Intersects(b))

	c := NewOrdSet[State](5, 6)
	assert.False(a.Intersects(c))
}

func Test_OrdSet_Equal(t *testing.T) {
	assert := assert.New(t)

	a := NewOrdSet[State](1, 2, 3)
	b := NewOrdSet[State](3, 2, 1)
	c := NewOrdSet[State](1, 2)

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_StateIndicator_AddHasRemove(t *testing.T) {
	assert := assert.New(t)

	var si StateIndicator
	si.Add(0)
	si.Add(5)
	si.Add(2)

	assert.True(si.Has(0))
	assert.True(si.Has(2))
	assert.True(si.Has(5))
	assert.False(si.Has(3))
	assert.Equal(3, si.Len())

	assert.True(si.Remove(2))
	assert.False(si.Has(2))
	assert.Equal(2, si.Len())
}

func Test_StateIndicator_Intersects(t *testing.T) {
	assert := assert.New(t)

	var a, b StateIndicator
	a.Add(1)
	a.Add(2)
	b.Add(2)
	b.Add(3)

	assert.True(a.Intersects(b))

	var c StateIndicator
	c.Add(9)
	assert.False(a.Intersects(c))
}

func Test_EpsilonAndDontCare_sortLast(t *testing.T) {
	assert := assert.New(t)

	assert.NotEqual(Epsilon, DontCare)
	assert.Greater(Epsilon, DontCare)
	assert.Greater(Epsilon, Symbol(1_000_000))
}
