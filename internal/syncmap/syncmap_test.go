package syncmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_GetOrPut(t *testing.T) {
	aMap := New[string, int]()
	calls := 0
	build := func() (int, error) {
		calls++
		return 10, nil
	}
	v, err := aMap.GetOrPut("a", build)
	assert.Nil(t, err)
	assert.Equal(t, 10, v)
	v, err = aMap.GetOrPut("a", build)
	assert.Nil(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, calls)

	_, err = aMap.GetOrPut("b", func() (int, error) { return 0, errors.New("failed") })
	assert.NotNil(t, err)
	_, ok := aMap.Get("b")
	assert.False(t, ok)

	aMap.Reset()
	assert.Equal(t, 0, aMap.Len())
}

func TestMap_GetOrPut_Reset(t *testing.T) {
	aMap := New[string, int]()
	calls := 0
	stale := func() (int, error) {
		calls++
		aMap.Reset()
		return 1, nil
	}
	v, err := aMap.GetOrPut("a", stale)
	assert.Nil(t, err)
	assert.Equal(t, 1, v)
	_, ok := aMap.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, aMap.Len())

	v, err = aMap.GetOrPut("a", func() (int, error) {
		calls++
		return 2, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 2, v)
	v, ok = aMap.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}
