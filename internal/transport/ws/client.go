// Package ws connects the bot to the game bridge over a websocket. The bridge
// pushes a STATE every game tick; Client caches it and exposes it through
// game.Client, and turns every blocking action into an ACT answered by an
// ACK.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/protocol"
)

const (
	DefaultHandshakeTimeout = 30 * time.Second
	DefaultActTimeout       = 2 * time.Minute
	DefaultYieldTimeout     = 5 * time.Second

	writeTimeout = 5 * time.Second
	// hungerFull is the food level of a player that cannot eat.
	hungerFull = 20
)

var ErrClosed = errors.New("bridge connection closed")

type Options struct {
	Login         string
	ServerAddress string
	Token         string
	Tracer        bt.Tracer
	Logger        *log.Logger

	HandshakeTimeout time.Duration
	ActTimeout       time.Duration
	YieldTimeout     time.Duration
}

// Client is a game.Client backed by a bridge connection.
type Client struct {
	*game.Behaviour

	conn *websocket.Conn
	log  *log.Logger
	opts Options

	welcome protocol.WelcomeMsg
	nextAct atomic.Uint64

	writeMu sync.Mutex

	mu            sync.Mutex
	tick          uint64
	tickCh        chan struct{}
	dayTime       int64
	hunger        int
	self          game.Entity
	entities      map[int]game.Entity
	blocks        map[game.Position]game.Block
	blockEntities map[game.Position]map[string]any
	windows       map[int16]game.Window
	opened        int16
	pending       map[string]chan protocol.AckMsg

	closeOnce sync.Once
	done      chan struct{}
	err       error
}

var _ game.Client = (*Client)(nil)

// Dial connects to the bridge at url, says HELLO and waits for WELCOME and
// the first STATE.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[ws] ", log.LstdFlags|log.Lmicroseconds)
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opts.ActTimeout <= 0 {
		opts.ActTimeout = DefaultActTimeout
	}
	if opts.YieldTimeout <= 0 {
		opts.YieldTimeout = DefaultYieldTimeout
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		Behaviour:     game.NewBehaviour(opts.Tracer),
		conn:          conn,
		log:           opts.Logger,
		opts:          opts,
		tickCh:        make(chan struct{}),
		entities:      map[int]game.Entity{},
		blocks:        map[game.Position]game.Block{},
		blockEntities: map[game.Position]map[string]any{},
		windows:       map[int16]game.Window{},
		opened:        -1,
		hunger:        hungerFull,
		pending:       map[string]chan protocol.AckMsg{},
		done:          make(chan struct{}),
	}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, err
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) handshake() error {
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		Login:           c.opts.Login,
		ServerAddress:   c.opts.ServerAddress,
		AutoRespawn:     true,
	}
	if c.opts.Token != "" {
		hello.Auth = &protocol.HelloAuth{Token: c.opts.Token}
	}
	if err := c.writeJSON(hello); err != nil {
		return fmt.Errorf("send HELLO: %w", err)
	}

	deadline := time.Now().Add(c.opts.HandshakeTimeout)
	_ = c.conn.SetReadDeadline(deadline)
	defer c.conn.SetReadDeadline(time.Time{})

	gotWelcome := false
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("handshake: %w", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		if base.ProtocolVersion != "" && base.ProtocolVersion != protocol.Version {
			return fmt.Errorf("handshake: bridge speaks protocol %s, want %s", base.ProtocolVersion, protocol.Version)
		}
		switch base.Type {
		case protocol.TypeWelcome:
			if err := json.Unmarshal(msg, &c.welcome); err != nil {
				return fmt.Errorf("decode WELCOME: %w", err)
			}
			gotWelcome = true
			c.log.Printf("WELCOME name=%s entity_id=%d min_y=%d height=%d", c.welcome.Name, c.welcome.EntityID, c.welcome.MinY, c.welcome.Height)
		case protocol.TypeState:
			if !gotWelcome {
				continue
			}
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				return fmt.Errorf("decode STATE: %w", err)
			}
			c.applyState(&st)
			return nil
		}
	}
}

func (c *Client) readLoop() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				c.log.Printf("bad STATE: %v", err)
				continue
			}
			c.applyState(&st)
		case protocol.TypeAck:
			var ack protocol.AckMsg
			if err := json.Unmarshal(msg, &ack); err != nil {
				c.log.Printf("bad ACK: %v", err)
				continue
			}
			c.mu.Lock()
			ch := c.pending[ack.AckFor]
			delete(c.pending, ack.AckFor)
			c.mu.Unlock()
			if ch != nil {
				ch <- ack
			}
		}
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

// Done is closed once the bridge connection is lost.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err is the reason the connection was lost.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	c.shutdown(ErrClosed)
	return err
}

func (c *Client) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// act sends one ACT and blocks until its ACK, and until the STATE the ACK
// points at has been applied. It gives up early when the behaviour is
// interrupted; the bridge's late ACK is then dropped.
func (c *Client) act(m protocol.ActMsg) error {
	m.Type = protocol.TypeAct
	m.ProtocolVersion = protocol.Version
	m.ID = "A" + strconv.FormatUint(c.nextAct.Add(1), 10)

	intr := c.Interrupts()
	select {
	case <-c.done:
		return fmt.Errorf("%s: %w", m.Action, ErrClosed)
	case <-intr:
		return fmt.Errorf("%s: %w", m.Action, game.ErrInterrupted)
	default:
	}

	ch := make(chan protocol.AckMsg, 1)
	c.mu.Lock()
	c.pending[m.ID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, m.ID)
		c.mu.Unlock()
	}()

	if err := c.writeJSON(m); err != nil {
		return fmt.Errorf("send %s: %w", m.Action, err)
	}

	timer := time.NewTimer(c.opts.ActTimeout)
	defer timer.Stop()
	var ack protocol.AckMsg
	select {
	case ack = <-ch:
	case <-c.done:
		return fmt.Errorf("%s: %w", m.Action, ErrClosed)
	case <-intr:
		return fmt.Errorf("%s: %w", m.Action, game.ErrInterrupted)
	case <-timer.C:
		return fmt.Errorf("%s: %w", m.Action, game.ErrTimeout)
	}
	if err := c.waitTick(ack.Tick, intr); err != nil {
		return fmt.Errorf("%s: %w", m.Action, err)
	}
	if err := ack.Err(); err != nil {
		return fmt.Errorf("%s: %w", m.Action, err)
	}
	return nil
}

// waitTick blocks until a STATE of at least tick has been applied.
func (c *Client) waitTick(tick uint64, intr <-chan struct{}) error {
	timer := time.NewTimer(c.opts.YieldTimeout)
	defer timer.Stop()
	for {
		c.mu.Lock()
		cur, ch := c.tick, c.tickCh
		c.mu.Unlock()
		if cur >= tick {
			return nil
		}
		select {
		case <-ch:
		case <-c.done:
			return ErrClosed
		case <-intr:
			return game.ErrInterrupted
		case <-timer.C:
			return fmt.Errorf("no STATE for tick %d (at %d): %w", tick, cur, game.ErrTimeout)
		}
	}
}

// Yield blocks until the bridge reports the next tick.
func (c *Client) Yield() error {
	if c.Interrupted() {
		return game.ErrInterrupted
	}
	intr := c.Interrupts()
	c.mu.Lock()
	ch := c.tickCh
	c.mu.Unlock()

	timer := time.NewTimer(c.opts.YieldTimeout)
	defer timer.Stop()
	select {
	case <-ch:
		return nil
	case <-c.done:
		return ErrClosed
	case <-intr:
		return game.ErrInterrupted
	case <-timer.C:
		return fmt.Errorf("no STATE from bridge: %w", game.ErrTimeout)
	}
}

func (c *Client) Now() time.Time { return time.Now() }

func (c *Client) Name() string { return c.welcome.Name }
