package manager

import (
	"go.uber.org/zap"

	"github.com/uhyunpark/orderdb/params"
	"github.com/uhyunpark/orderdb/pkg/app/core/command"
	"github.com/uhyunpark/orderdb/pkg/app/core/orderbook"
)

// Manager decodes transaction records and answers queries over the books
// they build.
type Manager struct {
	table     *orderbook.Table
	delimiter string
	topK      int
	log       *zap.SugaredLogger
}

func New(cfg params.Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	topK := cfg.Query.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Manager{
		table:     orderbook.NewTable(cfg.Book.Capacity, logger),
		delimiter: cfg.Input.Delimiter,
		topK:      topK,
		log:       logger.Sugar(),
	}
}

// Apply decodes and dispatches one record.
//
// Unknown side tokens and negative prices are logged and the record is
// still applied. Decode failures, unknown instructions and full books
// are returned.
func (m *Manager) Apply(record string) error {
	cmd, err := command.Decode(record, m.delimiter)
	if err != nil {
		m.log.Errorw("record_rejected", "record", record, "err", err)
		return err
	}

	if cmd.Key.Side == orderbook.SideUnknown {
		m.log.Warnw("unknown_side", "symbol", cmd.Key.Symbol, "id", cmd.Order.ID)
	}
	if cmd.Order.Price < 0 {
		m.log.Errorw("negative_price", "symbol", cmd.Key.Symbol, "id", cmd.Order.ID, "price", cmd.Order.Price)
	}

	return m.table.Dispatch(cmd.Key, cmd.Order, cmd.Instruction)
}

// Execute is Apply reduced to whether the record was accepted.
func (m *Manager) Execute(record string) bool {
	return m.Apply(record) == nil
}

// OrdersCount maps each symbol seen so far to its live order count.
func (m *Manager) OrdersCount() map[string]int {
	return m.table.OrdersCount()
}

// BiggestBuyOrders returns the volumes of up to k of the largest buy orders
// for symbol. An unknown symbol yields an empty slice.
func (m *Manager) BiggestBuyOrders(symbol string, k int) []uint32 {
	return m.table.BiggestBuyOrders(symbol, k)
}

// BiggestBuyOrdersDefault is BiggestBuyOrders with the configured k (3 unless overridden).
func (m *Manager) BiggestBuyOrdersDefault(symbol string) []uint32 {
	return m.table.BiggestBuyOrders(symbol, m.topK)
}

// BestSellAtTime returns price and volume of the highest priced sell order
// for symbol placed before time.
func (m *Manager) BestSellAtTime(symbol, time string) (price float64, volume uint32, matched bool) {
	return m.table.BestSellAtTime(symbol, time)
}

// Symbols lists symbols with at least one book, sorted.
func (m *Manager) Symbols() []string {
	return m.table.Symbols()
}
