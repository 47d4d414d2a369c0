package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/uhyunpark/orderdb/params"
	"github.com/uhyunpark/orderdb/pkg/app/manager"
	"github.com/uhyunpark/orderdb/pkg/feed"
	"github.com/uhyunpark/orderdb/pkg/util"
)

func main() {
	envPath := flag.String("env", "", "path to .env file (default: ./.env if present)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-env file] <input>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv(*envPath)

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := manager.New(cfg, logger)

	stats, err := feed.ReplayFile(ctx, input, m)
	sugar.Infow("replay_finished",
		"input", input,
		"lines", stats.Lines,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected)
	for _, e := range multierr.Errors(err) {
		sugar.Warnw("replay_error", "err", e)
	}
	if ctx.Err() != nil {
		os.Exit(1)
	}

	report(os.Stdout, m, cfg.Query)
}

func newLogger(cfg params.Log) (*zap.Logger, func(), error) {
	if cfg.File == "" {
		logger, err := util.NewLogger(cfg.Level)
		return logger, func() {}, err
	}
	return util.NewLoggerWithFile(cfg.File, cfg.Level)
}

func report(w io.Writer, m *manager.Manager, q params.Query) {
	counts := m.OrdersCount()
	fmt.Fprintln(w, "Orders count :")
	for _, symbol := range m.Symbols() {
		fmt.Fprintf(w, "%s\t%d\n", symbol, counts[symbol])
	}

	biggest := m.BiggestBuyOrders(q.Symbol, q.TopK)
	vols := make([]string, len(biggest))
	for i, v := range biggest {
		vols[i] = fmt.Sprint(v)
	}
	fmt.Fprintf(w, "Biggest buy orders for symbol %q :\n%s\n", q.Symbol, strings.Join(vols, "\t"))

	price, volume, matched := m.BestSellAtTime(q.Symbol, q.Time)
	if matched {
		fmt.Fprintf(w, "Best sell price at time %s for symbol %s is {%.2f} and its volume is {%d}\n",
			q.Time, q.Symbol, price, volume)
	} else {
		fmt.Fprintf(w, "Best sell price at time %s for symbol %s not found\n", q.Time, q.Symbol)
	}
}
