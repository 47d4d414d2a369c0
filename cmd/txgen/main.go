package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/uhyunpark/orderdb/params"
	"github.com/uhyunpark/orderdb/pkg/feed"
	"github.com/uhyunpark/orderdb/pkg/util"
)

func main() {
	count := flag.Int("n", 10000, "number of records to generate")
	symbols := flag.String("symbols", "DVAM1,TEST0,TEST1", "comma-separated symbols")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	cfg := params.LoadFromEnv("")

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	// Records start at today's 09:00 so timestamps stay within one day.
	now := time.Now()
	open := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())

	gen := feed.NewTxGenerator(strings.Split(*symbols, ","), util.FixedClock{T: open}, *seed)
	bw := bufio.NewWriter(w)
	if err := gen.WriteRecords(bw, *count, cfg.Input.Delimiter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := bw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %d records, %d orders left resting\n", *count, gen.Live())
}
