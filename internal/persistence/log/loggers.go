// Package log writes compressed JSONL traces of what the bot did.
package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"harvestbot.ai/internal/bt"
)

const hourLayout = "2006-01-02-15"

// LeafEntry is one finished behaviour-tree leaf.
type LeafEntry struct {
	Time      time.Time `json:"time"`
	Bot       string    `json:"bot"`
	Leaf      string    `json:"leaf"`
	Status    string    `json:"status"`
	ElapsedUS int64     `json:"elapsed_us"`
}

// TraceLogger is a bt.Tracer writing every leaf result to
// <dir>/leaves-<bot>-<hour>.jsonl.zst, one file per UTC hour.
type TraceLogger struct {
	dir    string
	bot    string
	prefix string
	now    func() time.Time

	// KeepHours bounds how many hour files stay on disk. Zero keeps all.
	KeepHours int
	// OnError is called when an entry cannot be written. Tracing never
	// stops the bot.
	OnError   func(error)

	mu   sync.Mutex
	hour string
	f    *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	enc  *json.Encoder
}

func NewTraceLogger(dir, bot string) *TraceLogger {
	return &TraceLogger{
		dir:    dir,
		bot:    bot,
		prefix: "leaves-" + fileSafe(bot) + "-",
		now:    time.Now,
	}
}

var _ bt.Tracer = (*TraceLogger)(nil)

func (l *TraceLogger) LeafDone(name string, status bt.Status, elapsed time.Duration) {
	if err := l.write(name, status, elapsed); err != nil && l.OnError != nil {
		l.OnError(err)
	}
}

func (l *TraceLogger) write(name string, status bt.Status, elapsed time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	if hour := now.Format(hourLayout); hour != l.hour {
		if err := l.openHourLocked(hour); err != nil {
			return err
		}
	}
	err := l.enc.Encode(LeafEntry{
		Time:      now,
		Bot:       l.bot,
		Leaf:      name,
		Status:    status.String(),
		ElapsedUS: elapsed.Microseconds(),
	})
	if err != nil {
		return err
	}
	// Each line reaches the encoder so a crash loses at most the open frame.
	return l.bw.Flush()
}

func (l *TraceLogger) openHourLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f, l.zw, l.hour = f, zw, hour
	l.bw = bufio.NewWriterSize(zw, 32*1024)
	l.enc = json.NewEncoder(l.bw)
	return l.pruneLocked()
}

// pruneLocked removes the oldest hour files beyond KeepHours.
func (l *TraceLogger) pruneLocked() error {
	if l.KeepHours <= 0 {
		return nil
	}
	files, err := l.hourFiles()
	if err != nil {
		return err
	}
	for len(files) > l.KeepHours {
		if err := os.Remove(filepath.Join(l.dir, files[0])); err != nil && !os.IsNotExist(err) {
			return err
		}
		files = files[1:]
	}
	return nil
}

// hourFiles lists this bot's trace files, oldest first.
func (l *TraceLogger) hourFiles() ([]string, error) {
	ents, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, l.prefix) && strings.HasSuffix(n, ".jsonl.zst") {
			out = append(out, n)
		}
	}
	// The hour layout sorts lexically.
	sort.Strings(out)
	return out, nil
}

func (l *TraceLogger) path(hour string) string {
	return filepath.Join(l.dir, l.prefix+hour+".jsonl.zst")
}

func (l *TraceLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *TraceLogger) closeLocked() error {
	var err error
	if l.bw != nil {
		err = l.bw.Flush()
	}
	if l.zw != nil {
		if cerr := l.zw.Close(); err == nil {
			err = cerr
		}
	}
	if l.f != nil {
		if cerr := l.f.Close(); err == nil {
			err = cerr
		}
	}
	l.f, l.zw, l.bw, l.enc, l.hour = nil, nil, nil, nil, ""
	return err
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
}
