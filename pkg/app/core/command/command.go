package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uhyunpark/orderdb/pkg/app/core/orderbook"
)

// DefaultDelimiter separates the fields of a transaction record.
const DefaultDelimiter = ";"

// FieldCount is the number of fields in a record:
//
//	timestamp;symbol;id;instruction;side;volume;price
const FieldCount = 7

const (
	fieldTime = iota
	fieldSymbol
	fieldID
	fieldInstruction
	fieldSide
	fieldVolume
	fieldPrice
)

var (
	ErrFieldCount = errors.New("command: wrong number of fields")
	ErrBadField   = errors.New("command: malformed field")
)

// Command is one decoded transaction record.
type Command struct {
	Key         orderbook.Key
	Order       orderbook.Order
	Instruction orderbook.Instruction
}

// Decode splits record on delimiter and converts its fields.
//
// Unrecognised side or instruction tokens are not errors; they decode to
// SideUnknown / InstructionUnknown and the caller decides what to do.
// A negative price is accepted as-is.
func Decode(record, delimiter string) (Command, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	record = strings.TrimSpace(record)

	parts := strings.Split(record, delimiter)
	if len(parts) != FieldCount {
		return Command{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(parts), FieldCount)
	}

	id, err := strconv.ParseUint(parts[fieldID], 10, 32)
	if err != nil {
		return Command{}, fmt.Errorf("%w: id %q: %w", ErrBadField, parts[fieldID], err)
	}
	volume, err := strconv.ParseUint(parts[fieldVolume], 10, 32)
	if err != nil {
		return Command{}, fmt.Errorf("%w: volume %q: %w", ErrBadField, parts[fieldVolume], err)
	}
	price, err := strconv.ParseFloat(parts[fieldPrice], 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w: price %q: %w", ErrBadField, parts[fieldPrice], err)
	}

	return Command{
		Key: orderbook.Key{
			Symbol: parts[fieldSymbol],
			Side:   orderbook.ParseSide(parts[fieldSide]),
		},
		Order: orderbook.Order{
			ID:     uint32(id),
			Time:   parts[fieldTime],
			Volume: uint32(volume),
			Price:  price,
		},
		Instruction: orderbook.ParseInstruction(parts[fieldInstruction]),
	}, nil
}

// Encode renders c as a record; Decode(Encode(c)) yields c for known tokens.
func Encode(c Command, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return strings.Join([]string{
		c.Order.Time,
		c.Key.Symbol,
		strconv.FormatUint(uint64(c.Order.ID), 10),
		c.Instruction.String(),
		c.Key.Side.String(),
		strconv.FormatUint(uint64(c.Order.Volume), 10),
		strconv.FormatFloat(c.Order.Price, 'f', 2, 64),
	}, delimiter)
}
