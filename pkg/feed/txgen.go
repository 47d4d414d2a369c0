package feed

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/uhyunpark/orderdb/pkg/app/core/command"
	"github.com/uhyunpark/orderdb/pkg/app/core/orderbook"
	"github.com/uhyunpark/orderdb/pkg/util"
)

// TimeLayout is the record timestamp format; it sorts lexicographically
// within a day.
const TimeLayout = "15:04:05.000000"

type liveOrder struct {
	key   orderbook.Key
	order orderbook.Order
}

// TxGenerator creates random but well-formed transaction records for load
// testing. Cancels and amends always target a live order.
type TxGenerator struct {
	symbols []string
	nextID  uint32
	now     time.Time
	live    []liveOrder
	rng     *rand.Rand
}

// NewTxGenerator starts the record clock at clock.Now().
func NewTxGenerator(symbols []string, clock util.Clock, seed int64) *TxGenerator {
	if len(symbols) == 0 {
		symbols = []string{"DVAM1"}
	}
	return &TxGenerator{
		symbols: symbols,
		nextID:  1,
		now:     clock.Now(),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (g *TxGenerator) tick() string {
	g.now = g.now.Add(time.Duration(g.rng.Intn(5000)+1) * time.Microsecond)
	return g.now.Format(TimeLayout)
}

func (g *TxGenerator) randomOrder(id uint32) orderbook.Order {
	// price around 40.00 (+-5%), volume 1..500
	price := 40.0 + float64(g.rng.Intn(401)-200)/100
	return orderbook.Order{
		ID:     id,
		Time:   g.tick(),
		Volume: uint32(g.rng.Intn(500) + 1),
		Price:  price,
	}
}

// GenerateInsert creates an insert for a fresh id.
func (g *TxGenerator) GenerateInsert() command.Command {
	side := orderbook.Buy
	if g.rng.Intn(2) == 1 {
		side = orderbook.Sell
	}
	key := orderbook.Key{Symbol: g.symbols[g.rng.Intn(len(g.symbols))], Side: side}
	order := g.randomOrder(g.nextID)
	g.nextID++

	g.live = append(g.live, liveOrder{key: key, order: order})
	return command.Command{Key: key, Order: order, Instruction: orderbook.Insert}
}

// GenerateCancel removes a random live order; it inserts when none is live.
func (g *TxGenerator) GenerateCancel() command.Command {
	if len(g.live) == 0 {
		return g.GenerateInsert()
	}
	i := g.rng.Intn(len(g.live))
	lo := g.live[i]
	g.live[i] = g.live[len(g.live)-1]
	g.live = g.live[:len(g.live)-1]

	lo.order.Time = g.tick()
	return command.Command{Key: lo.key, Order: lo.order, Instruction: orderbook.Cancel}
}

// GenerateAmend re-prices and re-sizes a random live order; it inserts when
// none is live.
func (g *TxGenerator) GenerateAmend() command.Command {
	if len(g.live) == 0 {
		return g.GenerateInsert()
	}
	i := g.rng.Intn(len(g.live))
	amended := g.randomOrder(g.live[i].order.ID)
	g.live[i].order = amended
	return command.Command{Key: g.live[i].key, Order: amended, Instruction: orderbook.Amend}
}

// GenerateMix creates a random transaction (70% inserts, 15% cancels, 15% amends)
func (g *TxGenerator) GenerateMix() command.Command {
	r := g.rng.Intn(100)
	switch {
	case r < 70:
		return g.GenerateInsert()
	case r < 85:
		return g.GenerateCancel()
	default:
		return g.GenerateAmend()
	}
}

// Live reports how many generated orders are still resting.
func (g *TxGenerator) Live() int { return len(g.live) }

// WriteRecords writes count mixed records to w, one per line.
func (g *TxGenerator) WriteRecords(w io.Writer, count int, delimiter string) error {
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintln(w, command.Encode(g.GenerateMix(), delimiter)); err != nil {
			return fmt.Errorf("write record %d: %w", i+1, err)
		}
	}
	return nil
}
