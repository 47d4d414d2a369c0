package orderbook

import "github.com/uhyunpark/orderdb/pkg/pqueue"

// DefaultCapacity bounds each book when the caller does not choose one.
const DefaultCapacity = 102400

// byVolume puts the largest volume at the root.
func byVolume(a, b Order) bool { return a.Volume > b.Volume }

// byVolumeDesc is the inverse of byVolume and stops the downward pass.
func byVolumeDesc(a, b Order) bool { return a.Volume < b.Volume }

func orderID(o Order) uint32 { return o.ID }

func newVolumeQueue(capacity int) *pqueue.Queue[Order, uint32] {
	return pqueue.New(pqueue.Config[Order, uint32]{
		Capacity: capacity,
		ID:       orderID,
		Less:     byVolume,
		Greater:  byVolumeDesc,
	})
}
