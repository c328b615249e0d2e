package game

import (
	"context"
	"sync"

	"harvestbot.ai/internal/bt"
)

// Behaviour holds the running tree and the blackboard of one client and drives
// the tree until the connection closes. Client implementations embed it.
type Behaviour struct {
	bb     *bt.Blackboard
	tracer bt.Tracer

	mu      sync.Mutex
	tree    Node
	swapped bool
	ctx     context.Context
	run     uint64
	changed chan struct{}
	// intr is closed when the tick in progress is interrupted.
	intr chan struct{}
}

func NewBehaviour(tracer bt.Tracer) *Behaviour {
	return &Behaviour{
		bb:      bt.NewBlackboard(),
		tracer:  tracer,
		ctx:     context.Background(),
		changed: make(chan struct{}, 1),
		intr:    make(chan struct{}),
	}
}

func (b *Behaviour) Blackboard() *bt.Blackboard { return b.bb }

func (b *Behaviour) Tracer() bt.Tracer { return b.tracer }

func (b *Behaviour) SetTracer(t bt.Tracer) {
	b.mu.Lock()
	b.tracer = t
	b.mu.Unlock()
}

// SetTree replaces the running tree. A tick in progress is interrupted at
// its next Yield.
func (b *Behaviour) SetTree(tree Node) {
	b.mu.Lock()
	b.tree = tree
	b.swapped = true
	b.interruptLocked()
	b.mu.Unlock()
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

func (b *Behaviour) StopBehaviour() { b.SetTree(nil) }

func (b *Behaviour) Interrupted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.swapped || b.ctx.Err() != nil
}

// Interrupts is closed once the tree is swapped or Run's context ends, so
// blocking actions can give up without waiting for the game.
func (b *Behaviour) Interrupts() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.intr
}

func (b *Behaviour) interruptLocked() {
	select {
	case <-b.intr:
	default:
		close(b.intr)
	}
}

// resumeLocked starts a new tick. A cancelled context stays interrupted.
func (b *Behaviour) resumeLocked() {
	b.swapped = false
	if b.ctx.Err() != nil {
		return
	}
	select {
	case <-b.intr:
		b.intr = make(chan struct{})
	default:
	}
}

func (b *Behaviour) Tree() Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree
}

// Run ticks the current tree over and over, yielding between ticks, until ctx
// is cancelled or done is closed. With no tree set it idles.
func (b *Behaviour) Run(ctx context.Context, c Client, done <-chan struct{}) error {
	b.mu.Lock()
	b.ctx = ctx
	b.run++
	run := b.run
	b.mu.Unlock()
	stop := context.AfterFunc(ctx, func() {
		b.mu.Lock()
		// A callback that fires after Run returned must not touch the next run.
		if b.run == run {
			b.interruptLocked()
		}
		b.mu.Unlock()
	})
	defer func() {
		stop()
		b.mu.Lock()
		b.ctx = context.Background()
		b.run++
		b.resumeLocked()
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		default:
		}

		b.mu.Lock()
		tree := b.tree
		b.resumeLocked()
		b.mu.Unlock()

		if tree == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return nil
			case <-b.changed:
			}
			continue
		}
		tree.Tick(c)
		_ = c.Yield()
	}
}

// TickOnce runs a single pass of the current tree outside of Run.
func (b *Behaviour) TickOnce(c Client) bt.Status {
	b.mu.Lock()
	tree := b.tree
	b.resumeLocked()
	b.mu.Unlock()
	if tree == nil {
		return bt.Failure
	}
	return tree.Tick(c)
}
