package orderbook

import "fmt"

type Side uint8

const (
	Buy Side = iota
	Sell
	SideUnknown
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide maps a record token to a Side. Unrecognised tokens yield SideUnknown.
func ParseSide(token string) Side {
	switch token {
	case "BUY":
		return Buy
	case "SELL":
		return Sell
	default:
		return SideUnknown
	}
}

type Instruction uint8

const (
	Insert Instruction = iota
	Cancel
	Amend
	InstructionUnknown
)

func (i Instruction) String() string {
	switch i {
	case Insert:
		return "I"
	case Cancel:
		return "C"
	case Amend:
		return "A"
	default:
		return "UNKNOWN"
	}
}

// ParseInstruction maps I/C/A to an Instruction. Anything else is InstructionUnknown.
func ParseInstruction(token string) Instruction {
	switch token {
	case "I":
		return Insert
	case "C":
		return Cancel
	case "A":
		return Amend
	default:
		return InstructionUnknown
	}
}

// Order is a resting order. Identity is ID alone; Time is compared
// lexicographically (HH:MM:SS.ffffff).
type Order struct {
	ID     uint32
	Time   string
	Volume uint32
	Price  float64
}

// Key addresses one book: a symbol on one side.
type Key struct {
	Symbol string
	Side   Side
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Symbol, k.Side) }
