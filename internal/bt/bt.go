// Package bt implements the small behaviour-tree vocabulary the bot trees are
// written in: leaves, sequences, selectors, repeaters, inverters and
// succeeders, all ticked synchronously against a client value.
package bt

import (
	"time"
)

type Status int

const (
	Success Status = iota
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// FromBool maps true to Success.
func FromBool(ok bool) Status {
	if ok {
		return Success
	}
	return Failure
}

// Node is one vertex of a tree. C is the client type the leaves act on.
type Node[C any] interface {
	Name() string
	Tick(c C) Status
}

// Tracer observes finished leaves.
type Tracer interface {
	LeafDone(name string, status Status, elapsed time.Duration)
}

// Traced is implemented by clients that want leaf results reported.
type Traced interface {
	Tracer() Tracer
}

// Interruptible is implemented by clients whose behaviour can be stopped from
// outside the tree. Unbounded repeaters give up once it reports true.
type Interruptible interface {
	Interrupted() bool
}

func interrupted(c any) bool {
	i, ok := c.(Interruptible)
	return ok && i.Interrupted()
}

type multiTracer []Tracer

func (m multiTracer) LeafDone(name string, status Status, elapsed time.Duration) {
	for _, t := range m {
		t.LeafDone(name, status, elapsed)
	}
}

// MultiTracer fans out to every non-nil tracer.
func MultiTracer(ts ...Tracer) Tracer {
	out := make(multiTracer, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

type leaf[C any] struct {
	name string
	fn   func(C) Status
}

func Leaf[C any](name string, fn func(C) Status) Node[C] {
	return &leaf[C]{name: name, fn: fn}
}

func (l *leaf[C]) Name() string { return l.name }

func (l *leaf[C]) Tick(c C) Status {
	var tr Tracer
	if t, ok := any(c).(Traced); ok {
		tr = t.Tracer()
	}
	if tr == nil {
		return l.fn(c)
	}
	start := time.Now()
	st := l.fn(c)
	tr.LeafDone(l.name, st, time.Since(start))
	return st
}

type sequence[C any] struct {
	name     string
	children []Node[C]
}

// Sequence ticks children in order and fails on the first failure.
func Sequence[C any](children ...Node[C]) Node[C] {
	return &sequence[C]{name: "sequence", children: children}
}

func (s *sequence[C]) Name() string { return s.name }

func (s *sequence[C]) Tick(c C) Status {
	for _, ch := range s.children {
		if ch.Tick(c) == Failure {
			return Failure
		}
	}
	return Success
}

type selector[C any] struct {
	name     string
	children []Node[C]
}

// Selector ticks children in order and succeeds on the first success.
func Selector[C any](children ...Node[C]) Node[C] {
	return &selector[C]{name: "selector", children: children}
}

func (s *selector[C]) Name() string { return s.name }

func (s *selector[C]) Tick(c C) Status {
	for _, ch := range s.children {
		if ch.Tick(c) == Success {
			return Success
		}
	}
	return Failure
}

type inverter[C any] struct{ child Node[C] }

func Inverter[C any](child Node[C]) Node[C] { return &inverter[C]{child: child} }

func (n *inverter[C]) Name() string { return "inverter" }

func (n *inverter[C]) Tick(c C) Status {
	if n.child.Tick(c) == Success {
		return Failure
	}
	return Success
}

type succeeder[C any] struct{ child Node[C] }

func Succeeder[C any](child Node[C]) Node[C] { return &succeeder[C]{child: child} }

func (n *succeeder[C]) Name() string { return "succeeder" }

func (n *succeeder[C]) Tick(c C) Status {
	n.child.Tick(c)
	return Success
}

type repeater[C any] struct {
	n     int
	child Node[C]
}

// Repeater ticks child n times and reports the last result. With n == 0 it
// keeps ticking until the child first succeeds.
func Repeater[C any](n int, child Node[C]) Node[C] {
	if n < 0 {
		n = 0
	}
	return &repeater[C]{n: n, child: child}
}

func (r *repeater[C]) Name() string { return "repeater" }

func (r *repeater[C]) Tick(c C) Status {
	if r.n == 0 {
		for r.child.Tick(c) != Success {
			if interrupted(c) {
				return Failure
			}
		}
		return Success
	}
	st := Failure
	for i := 0; i < r.n; i++ {
		st = r.child.Tick(c)
	}
	return st
}

type named[C any] struct {
	name string
	root Node[C]
}

// Tree names a subtree so traces and logs can refer to it.
func Tree[C any](name string, root Node[C]) Node[C] {
	return &named[C]{name: name, root: root}
}

func (t *named[C]) Name() string { return t.name }

func (t *named[C]) Tick(c C) Status { return t.root.Tick(c) }
