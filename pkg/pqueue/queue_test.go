package pqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type item struct {
	id   int
	data int
}

// larger data sits closer to the root
func newQueue(capacity int) *Queue[item, int] {
	return New(Config[item, int]{
		Capacity: capacity,
		ID:       func(it item) int { return it.id },
		Less:     func(a, b item) bool { return a.data > b.data },
		Greater:  func(a, b item) bool { return a.data < b.data },
	})
}

// satisfied by both *testing.T and *rapid.T
type fataler interface {
	Fatalf(format string, args ...any)
}

func checkInvariants(t fataler, q *Queue[item, int]) {
	if q.size > q.cfg.Capacity {
		t.Fatalf("size %d exceeds capacity %d", q.size, q.cfg.Capacity)
	}
	if len(q.index) != q.size {
		t.Fatalf("index holds %d ids, size is %d", len(q.index), q.size)
	}
	for i := 0; i < q.size; i++ {
		if pos, ok := q.index[q.heap[i].id]; !ok || pos != i {
			t.Fatalf("index[%d] = %d (present=%v), want %d", q.heap[i].id, pos, ok, i)
		}
		if i > 0 && q.heap[i].data > q.heap[parent(i)].data {
			t.Fatalf("slot %d (data %d) beats parent slot %d (data %d)",
				i, q.heap[i].data, parent(i), q.heap[parent(i)].data)
		}
	}
}

func datas(items []item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.data
	}
	return out
}

func TestQueue_Insert(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 10, data: 5}))
	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Contains(10))
	checkInvariants(t, q)
}

func TestQueue_InsertDuplicateKeepsOriginal(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 1, data: 5}))

	err := q.Insert(item{id: 1, data: 99})
	require.ErrorIs(t, err, ErrDuplicateID)

	assert.Equal(t, 1, q.Len())
	got, ok := q.Get(1)
	require.True(t, ok)
	assert.Equal(t, 5, got.data)
}

func TestQueue_InsertBeyondCapacity(t *testing.T) {
	q := newQueue(2)
	require.NoError(t, q.Insert(item{id: 1, data: 1}))
	require.NoError(t, q.Insert(item{id: 2, data: 2}))

	err := q.Insert(item{id: 3, data: 3})
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, q.Len())
	assert.False(t, q.Contains(3))
	checkInvariants(t, q)
}

func TestQueue_Remove(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 10, data: 5}))
	require.NoError(t, q.Remove(item{id: 10, data: 5}))

	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains(10))
	require.ErrorIs(t, q.Remove(item{id: 10}), ErrNotFound)
}

func TestQueue_RemoveUsesIDOnly(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 7, data: 5}))
	require.NoError(t, q.Remove(item{id: 7, data: 12345}))
	assert.Equal(t, 0, q.Len())
}

func TestQueue_RemoveFromEveryPosition(t *testing.T) {
	for victim := 1; victim <= 7; victim++ {
		q := newQueue(16)
		for id := 1; id <= 7; id++ {
			require.NoError(t, q.Insert(item{id: id, data: id * 10}))
		}
		require.NoError(t, q.Remove(item{id: victim}))
		assert.Equal(t, 6, q.Len())
		assert.False(t, q.Contains(victim))
		checkInvariants(t, q)
	}
}

func TestQueue_Update(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 10, data: 5}))
	require.NoError(t, q.Update(item{id: 10, data: 20}))

	assert.Equal(t, 1, q.Len())
	got, _ := q.Get(10)
	assert.Equal(t, 20, got.data)

	require.ErrorIs(t, q.Update(item{id: 11, data: 1}), ErrNotFound)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_UpdateMovesBothWays(t *testing.T) {
	q := newQueue(16)
	for id, data := range []int{100, 90, 80, 70, 60, 50, 40} {
		require.NoError(t, q.Insert(item{id: id, data: data}))
	}

	// deepest item becomes the largest
	require.NoError(t, q.Update(item{id: 6, data: 500}))
	checkInvariants(t, q)
	assert.Equal(t, 6, q.Items()[0].id)

	// root becomes the smallest
	require.NoError(t, q.Update(item{id: 6, data: 1}))
	checkInvariants(t, q)
	assert.Equal(t, 0, q.Items()[0].id)
}

func TestQueue_SiftDownPrefersLeftOnTie(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 1, data: 10}))
	require.NoError(t, q.Insert(item{id: 2, data: 5}))
	require.NoError(t, q.Insert(item{id: 3, data: 5}))

	require.NoError(t, q.Update(item{id: 1, data: 1}))
	ids := []int{}
	for _, it := range q.Items() {
		ids = append(ids, it.id)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
}

func TestQueue_TopItems(t *testing.T) {
	q := newQueue(16)
	// descending inserts never swap, so the heap is laid out in this order
	for id, data := range []int{100, 90, 80, 70, 60, 50, 40} {
		require.NoError(t, q.Insert(item{id: id, data: data}))
	}

	tests := []struct {
		k    int
		want []int
	}{
		{k: 0, want: []int{}},
		{k: 1, want: []int{100}},
		{k: 2, want: []int{100, 90}},
		{k: 3, want: []int{100, 90, 80}},
		{k: 5, want: []int{100, 90, 80, 70, 60}},
		{k: 7, want: []int{100, 90, 80, 70, 60, 50, 40}},
		{k: 50, want: []int{100, 90, 80, 70, 60, 50, 40}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, datas(q.TopItems(tt.k)), "k=%d", tt.k)
	}
}

func TestQueue_TopItemsSortsPartialLevel(t *testing.T) {
	q := newQueue(16)
	require.NoError(t, q.Insert(item{id: 1, data: 100}))
	require.NoError(t, q.Insert(item{id: 2, data: 10}))
	require.NoError(t, q.Insert(item{id: 3, data: 90}))

	assert.Equal(t, []int{100, 90}, datas(q.TopItems(2)))
}

func TestQueue_TopItemsIsLevelBased(t *testing.T) {
	q := newQueue(16)
	for id, data := range []int{100, 10, 90, 9, 8, 80, 70} {
		require.NoError(t, q.Insert(item{id: id, data: data}))
	}
	checkInvariants(t, q)

	// 80 lives on level 2 and is never considered for k = 3
	assert.Equal(t, []int{100, 10, 90}, datas(q.TopItems(3)))
}

func TestQueue_TopItemsAllWhenKExceedsLen(t *testing.T) {
	q := newQueue(64)
	for id := 0; id < 20; id++ {
		require.NoError(t, q.Insert(item{id: id, data: (id * 37) % 23}))
	}
	top := q.TopItems(100)
	assert.ElementsMatch(t, q.Items(), top)
}

func TestQueue_Filter(t *testing.T) {
	q := newQueue(16)
	for id, data := range []int{3, 8, 5, 1} {
		require.NoError(t, q.Insert(item{id: id + 1, data: data}))
	}

	even := func(it item) bool { return it.id%2 == 0 }
	higher := func(best, cand item) bool { return best.data < cand.data }

	best, ok := q.Filter(even, higher)
	require.True(t, ok)
	assert.Equal(t, item{id: 2, data: 8}, best)

	best, ok = q.Filter(func(item) bool { return false }, higher)
	assert.False(t, ok)
	assert.Equal(t, item{}, best)
}

func TestFilterValue(t *testing.T) {
	q := newQueue(16)
	for id, data := range []int{3, 8, 5, 1} {
		require.NoError(t, q.Insert(item{id: id + 1, data: data}))
	}

	below := func(it item, limit int) bool { return it.data < limit }
	higher := func(best, cand item) bool { return best.data < cand.data }

	best, ok := FilterValue(q, 6, below, higher)
	require.True(t, ok)
	assert.Equal(t, 5, best.data)

	_, ok = FilterValue(q, 0, below, higher)
	assert.False(t, ok)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	assert.Panics(t, func() { newQueue(0) })
	assert.Panics(t, func() {
		New(Config[item, int]{Capacity: 1})
	})
}

func TestProperty_HeapAndIndexInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const capacity = 16
		q := newQueue(capacity)
		model := map[int]int{}

		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			op := rapid.IntRange(0, 2).Draw(t, "op")
			id := rapid.IntRange(0, 24).Draw(t, "id")
			data := rapid.IntRange(0, 50).Draw(t, "data")
			it := item{id: id, data: data}

			_, present := model[id]
			switch op {
			case 0:
				err := q.Insert(it)
				switch {
				case present:
					if err == nil {
						t.Fatalf("duplicate insert of %d accepted", id)
					}
				case len(model) == capacity:
					if err == nil {
						t.Fatalf("insert beyond capacity accepted")
					}
				default:
					if err != nil {
						t.Fatalf("insert %d: %v", id, err)
					}
					model[id] = data
				}
			case 1:
				err := q.Remove(it)
				if present != (err == nil) {
					t.Fatalf("remove %d: present=%v err=%v", id, present, err)
				}
				delete(model, id)
			case 2:
				err := q.Update(it)
				if present != (err == nil) {
					t.Fatalf("update %d: present=%v err=%v", id, present, err)
				}
				if present {
					model[id] = data
				}
			}

			checkInvariants(t, q)
			if q.Len() != len(model) {
				t.Fatalf("Len() = %d, model has %d", q.Len(), len(model))
			}
			for mid, mdata := range model {
				got, ok := q.Get(mid)
				if !ok || got.data != mdata {
					t.Fatalf("Get(%d) = %v/%v, want data %d", mid, got, ok, mdata)
				}
			}
		}

		if top := q.TopItems(capacity); len(top) != q.Len() {
			t.Fatalf("TopItems(%d) returned %d items, Len is %d", capacity, len(top), q.Len())
		}
	})
}

func BenchmarkQueueInsertRemove(b *testing.B) {
	q := newQueue(1 << 16)
	for i := 0; i < 1<<15; i++ {
		_ = q.Insert(item{id: i, data: (i * 7919) % 1000})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := 1<<15 + i%1024
		_ = q.Insert(item{id: id, data: i % 1000})
		_ = q.Remove(item{id: id})
	}
}
