package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"harvestbot.ai/internal/bt"
)

func readEntries(t *testing.T, path string) []LeafEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []LeafEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e LeafEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decode line %q: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestTraceLogger_WritesCompressedJSONL(t *testing.T) {
	dir := t.TempDir()
	l := NewTraceLogger(dir, "BCHarvestBot")
	now := time.Date(2024, 5, 1, 13, 20, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.LeafDone("CollectCropsAndReplant", bt.Success, 1500*time.Microsecond)
	l.LeafDone("Trade", bt.Failure, 20*time.Microsecond)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readEntries(t, filepath.Join(dir, "leaves-BCHarvestBot-2024-05-01-13.jsonl.zst"))
	if len(got) != 2 {
		t.Fatalf("entries=%d want 2", len(got))
	}
	if got[0].Leaf != "CollectCropsAndReplant" || got[0].Status != "SUCCESS" || got[0].ElapsedUS != 1500 || got[0].Bot != "BCHarvestBot" {
		t.Fatalf("first entry: %+v", got[0])
	}
	if got[1].Leaf != "Trade" || got[1].Status != "FAILURE" {
		t.Fatalf("second entry: %+v", got[1])
	}
}

func TestTraceLogger_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewTraceLogger(dir, "bot")
	now := time.Date(2024, 5, 1, 13, 59, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.LeafDone("a", bt.Success, 0)
	now = now.Add(2 * time.Minute)
	l.LeafDone("b", bt.Success, 0)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	first := readEntries(t, filepath.Join(dir, "leaves-bot-2024-05-01-13.jsonl.zst"))
	second := readEntries(t, filepath.Join(dir, "leaves-bot-2024-05-01-14.jsonl.zst"))
	if len(first) != 1 || first[0].Leaf != "a" || len(second) != 1 || second[0].Leaf != "b" {
		t.Fatalf("rotation: first=%+v second=%+v", first, second)
	}
}

func TestTraceLogger_KeepHoursPrunesOldest(t *testing.T) {
	dir := t.TempDir()
	// Another bot's trace in the same directory is left alone.
	other := filepath.Join(dir, "leaves-other-2024-01-01-00.jsonl.zst")
	if err := os.WriteFile(other, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewTraceLogger(dir, "bot")
	l.KeepHours = 2
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	for i := 0; i < 4; i++ {
		l.LeafDone("Eat", bt.Success, 0)
		now = now.Add(time.Hour)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := l.hourFiles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || files[0] != "leaves-bot-2024-05-01-12.jsonl.zst" || files[1] != "leaves-bot-2024-05-01-13.jsonl.zst" {
		t.Fatalf("kept files: %v", files)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("other bot trace removed: %v", err)
	}
}

func TestTraceLogger_ReportsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewTraceLogger(filepath.Join(blocker, "trace"), "bot name")
	var errs int
	l.OnError = func(error) { errs++ }
	l.LeafDone("Dig", bt.Failure, 0)
	if errs != 1 {
		t.Fatalf("errors reported: %d", errs)
	}
	if l.prefix != "leaves-bot_name-" {
		t.Fatalf("prefix: %q", l.prefix)
	}
}
