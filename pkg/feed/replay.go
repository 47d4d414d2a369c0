package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// MaxReportedErrors caps how many rejected lines Replay folds into its error.
const MaxReportedErrors = 20

// maxLineBytes bounds a single record; real records are well under 100 bytes.
const maxLineBytes = 64 * 1024

// Executor applies one record. *manager.Manager satisfies it.
type Executor interface {
	Apply(record string) error
}

type Stats struct {
	Lines    int
	Accepted int
	Rejected int
	Skipped  int // blank lines
}

// Replay feeds every line of r to exec in order.
//
// Rejected lines do not stop the replay; the first MaxReportedErrors of them
// are combined into the returned error. Read failures and ctx cancellation
// stop the replay and are returned as well.
func Replay(ctx context.Context, r io.Reader, exec Executor) (Stats, error) {
	var (
		stats    Stats
		rejected error
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, multierr.Append(rejected, err)
		}
		stats.Lines++

		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			stats.Skipped++
			continue
		}
		if err := exec.Apply(line); err != nil {
			stats.Rejected++
			if stats.Rejected <= MaxReportedErrors {
				rejected = multierr.Append(rejected, fmt.Errorf("line %d: %w", stats.Lines, err))
			}
			continue
		}
		stats.Accepted++
	}
	if err := sc.Err(); err != nil {
		return stats, multierr.Append(rejected, fmt.Errorf("read line %d: %w", stats.Lines+1, err))
	}
	return stats, rejected
}

// ReplayFile opens path and replays it.
func ReplayFile(ctx context.Context, path string, exec Executor) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Replay(ctx, f, exec)
}
