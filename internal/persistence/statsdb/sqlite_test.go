package statsdb

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"harvestbot.ai/internal/bt"
)

func TestLedger_RecordsAndSummarizes(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "stats.db"), "BCHarvestBot")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	l.LeafDone("CollectCropsAndReplant", bt.Success, time.Millisecond)
	l.LeafDone("Trade", bt.Success, time.Microsecond)
	l.LeafDone("Trade", bt.Success, time.Microsecond)
	l.LeafDone("Trade", bt.Failure, time.Microsecond)
	l.LeafDone("Craft", bt.Success, 2*time.Microsecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}

	sum, err := l.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Harvests != 1 || sum.Trades != 2 || sum.Crafts != 1 || sum.Failures != 1 || sum.LeafCalls != 5 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	leaves, err := l.Leaves(ctx)
	if err != nil {
		t.Fatalf("leaves: %v", err)
	}
	if len(leaves) != 3 || leaves[2].Leaf != "Trade" || leaves[2].Failures != 1 || leaves[0].TotalUS != 1000 {
		t.Fatalf("unexpected leaves: %+v", leaves)
	}
}

func TestLedger_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	l, err := Open(path, "bot")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.LeafDone("Trade", bt.Success, 0)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Closed ledgers ignore late leaves.
	l.LeafDone("Trade", bt.Success, 0)

	l2, err := Open(path, "bot")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l2.Close()
	sum, err := l2.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Trades != 1 {
		t.Fatalf("trades=%d want 1", sum.Trades)
	}
}

func TestLedger_QueueDropStats(t *testing.T) {
	l := &Ledger{ch: make(chan req, 1)}
	l.LeafDone("a", bt.Success, 0)
	l.LeafDone("b", bt.Success, 0)
	l.LeafDone("c", bt.Failure, 0)
	if l.Dropped() != 2 {
		t.Fatalf("dropped=%d want 2", l.Dropped())
	}
}

func TestLedger_LateWritesDuringClose(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "stats.db"), "bot")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for j := 0; j < 200; j++ {
				l.LeafDone("Trade", bt.Success, 0)
				if err := l.Sync(ctx); err != nil {
					t.Errorf("sync: %v", err)
					return
				}
			}
		}()
	}
	time.Sleep(5 * time.Millisecond)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()
	if err := l.Sync(context.Background()); err != nil {
		t.Fatalf("sync after close: %v", err)
	}
}

func TestLedger_ReportsWriteErrors(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "stats.db"), "bot")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	errs := make(chan error, 16)
	l.OnError(func(err error) {
		select {
		case errs <- err:
		default:
		}
	})
	_ = l.db.Close()
	l.LeafDone("Trade", bt.Success, 0)

	select {
	case err := <-errs:
		if !strings.HasPrefix(err.Error(), "statsdb ") {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("write error not reported")
	}
	_ = l.Close()
}
