package orderbook

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/uhyunpark/orderdb/pkg/pqueue"
)

var ErrUnknownInstruction = errors.New("orderbook: unknown instruction")

// Book is the volume-ordered queue for one Key.
type Book struct {
	mu    sync.Mutex
	queue *pqueue.Queue[Order, uint32]
}

func newBook(capacity int) *Book {
	return &Book{queue: newVolumeQueue(capacity)}
}

func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.Len()
}

// Table routes each Key to its Book, creating books on first reference.
// Books are never removed, even once empty.
type Table struct {
	mu       sync.RWMutex // guards books; each Book has its own lock
	books    map[Key]*Book
	capacity int
	log      *zap.SugaredLogger
}

// NewTable creates an empty table whose books hold at most capacity orders.
// A nil logger discards diagnostics.
func NewTable(capacity int, logger *zap.Logger) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		books:    make(map[Key]*Book),
		capacity: capacity,
		log:      logger.Sugar(),
	}
}

func (tb *Table) lookup(key Key) (*Book, bool) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	b, ok := tb.books[key]
	return b, ok
}

func (tb *Table) lookupOrCreate(key Key) *Book {
	if b, ok := tb.lookup(key); ok {
		return b
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()
	if b, ok := tb.books[key]; ok {
		return b
	}
	b := newBook(tb.capacity)
	tb.books[key] = b
	tb.log.Debugw("book_created", "symbol", key.Symbol, "side", key.Side.String())
	return b
}

// Dispatch applies one decoded instruction to the book addressed by key.
//
// Duplicate ids on insert and unknown ids on cancel/amend are logged and
// treated as no-ops. A full book and an unknown instruction are returned
// as errors; neither mutates any book.
func (tb *Table) Dispatch(key Key, order Order, instr Instruction) error {
	if instr == InstructionUnknown {
		tb.log.Errorw("unknown_instruction", "symbol", key.Symbol, "id", order.ID)
		return fmt.Errorf("%w: order %d", ErrUnknownInstruction, order.ID)
	}

	b := tb.lookupOrCreate(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	switch instr {
	case Insert:
		err = b.queue.Insert(order)
	case Cancel:
		err = b.queue.Remove(order)
	case Amend:
		err = b.queue.Update(order)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pqueue.ErrFull):
		tb.log.Errorw("book_full", "book", key.String(), "id", order.ID, "capacity", b.queue.Cap())
		return fmt.Errorf("dispatch %s to %s: %w", instr, key, err)
	case errors.Is(err, pqueue.ErrDuplicateID):
		tb.log.Warnw("insert_duplicate_id", "book", key.String(), "id", order.ID)
	case errors.Is(err, pqueue.ErrNotFound):
		tb.log.Warnw("order_not_found", "book", key.String(), "id", order.ID, "instruction", instr.String())
	default:
		return err
	}
	return nil
}

// OrdersCount sums live orders per symbol across every side registered for
// it. Symbols whose books are all empty are reported with 0.
func (tb *Table) OrdersCount() map[string]int {
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	counts := make(map[string]int)
	for key, b := range tb.books {
		counts[key.Symbol] += b.Len()
	}
	return counts
}

// BiggestBuyOrders returns the volumes of up to k of the largest buy orders
// for symbol, in the order produced by the book's level scan.
func (tb *Table) BiggestBuyOrders(symbol string, k int) []uint32 {
	key := Key{Symbol: symbol, Side: Buy}
	b, ok := tb.lookup(key)
	if !ok {
		tb.log.Warnw("book_not_found", "book", key.String(), "query", "biggest_buy_orders")
		return []uint32{}
	}

	b.mu.Lock()
	top := b.queue.TopItems(k)
	b.mu.Unlock()

	volumes := make([]uint32, len(top))
	for i, o := range top {
		volumes[i] = o.Volume
	}
	return volumes
}

func placedBefore(o Order, time string) bool { return o.Time < time }

func higherPrice(best, candidate Order) bool { return best.Price < candidate.Price }

// BestSellAtTime returns the highest priced sell order for symbol placed
// strictly before time. matched is false when no order qualifies.
func (tb *Table) BestSellAtTime(symbol, time string) (price float64, volume uint32, matched bool) {
	key := Key{Symbol: symbol, Side: Sell}
	b, ok := tb.lookup(key)
	if !ok {
		tb.log.Warnw("book_not_found", "book", key.String(), "query", "best_sell_at_time")
		return 0, 0, false
	}

	b.mu.Lock()
	best, matched := pqueue.FilterValue(b.queue, time, placedBefore, higherPrice)
	b.mu.Unlock()

	if !matched {
		return 0, 0, false
	}
	return best.Price, best.Volume, true
}

// Symbols lists every symbol with at least one registered book, sorted.
func (tb *Table) Symbols() []string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range tb.books {
		seen[key.Symbol] = struct{}{}
	}
	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Depth returns the live order count of one book, or 0 if it was never created.
func (tb *Table) Depth(key Key) int {
	b, ok := tb.lookup(key)
	if !ok {
		return 0
	}
	return b.Len()
}
