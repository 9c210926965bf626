package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanesim/lanesim/utils/container"
)

func TestListInit(t *testing.T) {
	l := &container.List[string]{}
	assert.Nil(t, l.First())
	assert.Nil(t, l.Last())
	assert.Equal(t, 0, l.Len())
}

func TestListOperation(t *testing.T) {
	l := &container.List[string]{}

	// test: insert

	// ^, 1, ^
	n1 := &container.ListNode[string]{S: 1, Value: "a"}
	l.PushBack(n1)
	// ^, 2, 1, ^
	n2 := &container.ListNode[string]{S: 2, Value: "b"}
	l.PushFront(n2)
	// ^, 3, 2, 1, ^
	n3 := &container.ListNode[string]{S: 3, Value: "c"}
	n2.InsertBefore(n3)
	// ^, 3, 2, 1, 4, ^
	n4 := &container.ListNode[string]{S: 4, Value: "d"}
	n1.InsertAfter(n4)
	assert.Equal(t, 4, l.Len())

	// test: first last next prev

	n := l.First()
	assert.Equal(t, n3, n)
	n = n.Next()
	assert.Equal(t, n2, n)
	n = n.Next()
	assert.Equal(t, n1, n)
	assert.Equal(t, n, n.Next().Prev())
	assert.Equal(t, n, n.Prev().Next())
	n = n.Next()
	assert.Equal(t, n4, n)

	assert.Equal(t, n4, l.Last())

	// test: pop merge

	// before: head, 3, 2, 1, 4, tail
	n0 := &container.ListNode[string]{S: 0, Value: "e"}
	l.PushFront(n0)
	unsorted := l.PopUnsorted()
	assert.ElementsMatch(t, []*container.ListNode[string]{n2, n1}, unsorted)
	assert.Equal(t, 5-2, l.Len())

	// head, 0, 1, 2, 3, 4, tail
	l.Merge(unsorted)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, l.Keys())
	assert.Equal(t, []string{"e", "a", "b", "c", "d"}, l.Values())

	// test: remove

	// head, 0, 1, 2, 3, tail
	l.Remove(n4)
	assert.Equal(t, n3, l.Last())
	assert.Equal(t, 5-1, l.Len())
}
