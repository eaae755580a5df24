// Package net owns the TCP listener and per-connection I/O worker
// goroutines: socket I/O runs off the tick loop,
// communicating with it only through bounded channels, so the scheduler
// never blocks on a socket read or write. An accept loop hands each
// socket a read and a write goroutine; framing lives in
// internal/protocol.
package net

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/session"
)

// Inbound is one decoded packet handed from a connection's read worker to
// the tick loop's Ingress phase.
type Inbound struct {
	ConnID uint64
	Packet protocol.Packet
	PktID  int32
}

const (
	inboxSize  = 256
	outboxSize = 1024
	readBufCap = 4096
)

// Connection is one accepted TCP socket plus its codec and FSM state. Its
// read and write loops run on dedicated goroutines; the tick loop only
// ever touches Inbox (consume) and Outbox (produce).
type Connection struct {
	ID   uint64
	conn net.Conn

	decoder  *protocol.Decoder
	encoder  *protocol.Encoder
	registry *protocol.Registry

	encIn  *protocol.StreamCipher // nil until encryption negotiated
	encOut *protocol.StreamCipher

	FSM *session.FSM

	Inbox  chan Inbound
	Outbox chan []byte // id-prefixed bodies, same shape LayerMessages stores

	closed int32
	done   chan struct{}
}

// newConnection wraps an accepted socket. maxDecoderBuf bounds the
// decoder's reassembly buffer.
func newConnection(id uint64, c net.Conn, reg *protocol.Registry, maxDecoderBuf int, fsm *session.FSM) *Connection {
	return &Connection{
		ID:       id,
		conn:     c,
		decoder:  protocol.NewDecoder(maxDecoderBuf, protocol.CompressionDisabled),
		encoder:  protocol.NewEncoder(protocol.CompressionDisabled),
		registry: reg,
		FSM:      fsm,
		Inbox:    make(chan Inbound, inboxSize),
		Outbox:   make(chan []byte, outboxSize),
		done:     make(chan struct{}),
	}
}

// SetCompression enables frame compression for both directions at
// threshold.
func (c *Connection) SetCompression(threshold int32) {
	c.decoder.SetThreshold(int(threshold))
	c.encoder.SetThreshold(int(threshold))
}

// EnableEncryption installs the AES-128-CFB8 stream ciphers derived from
// the negotiated shared secret.
func (c *Connection) EnableEncryption(sharedSecret []byte) error {
	in, err := protocol.NewStreamCipher(sharedSecret, false)
	if err != nil {
		return err
	}
	out, err := protocol.NewStreamCipher(sharedSecret, true)
	if err != nil {
		return err
	}
	c.encIn, c.encOut = in, out
	return nil
}

// Send enqueues an id-prefixed packet body for the write worker, dropping
// it if Outbox is full (a slow client falls behind rather than stalling
// the tick loop).
func (c *Connection) Send(idBody []byte) (sent bool) {
	select {
	case c.Outbox <- idBody:
		return true
	default:
		return false
	}
}

// Close idempotently closes the socket and signals both loops to exit.
func (c *Connection) Close() {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return
	}
	close(c.done)
	_ = c.conn.Close()
}

func (c *Connection) isClosed() bool { return atomic.LoadInt32(&c.closed) != 0 }

// Closed reports whether the connection has been closed, either by the
// tick loop calling Close or by the socket itself failing. The tick loop
// polls this during Ingress to notice disconnects that didn't arrive as a
// decoded packet.
func (c *Connection) Closed() bool { return c.isClosed() }

// readLoop decodes frames off the socket and dispatches them into Inbox,
// running entirely off the tick loop.
func (c *Connection) readLoop(state func() protocol.State) {
	defer c.Close()
	buf := make([]byte, readBufCap)
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
		n, err := c.conn.Read(buf)
		if err != nil {
			return
		}
		chunk := buf[:n]
		if c.encIn != nil {
			dec := make([]byte, n)
			c.encIn.XORKeyStream(dec, chunk)
			chunk = dec
		}
		if err := c.decoder.Feed(chunk); err != nil {
			return
		}
		for {
			id, body, ok, err := c.decoder.Next()
			if err != nil {
				return
			}
			if !ok {
				break
			}
			pkt, err := c.registry.Decode(state(), protocol.Serverbound, id, body)
			if err != nil {
				return
			}
			select {
			case c.Inbox <- Inbound{ConnID: c.ID, Packet: pkt, PktID: id}:
			case <-c.done:
				return
			}
		}
	}
}

// writeLoop drains Outbox, framing (and encrypting) each packet before
// writing it to the socket — bytes queued during a tick are flushed in
// order before the next tick's writes begin.
func (c *Connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case idBody := <-c.Outbox:
			if c.isClosed() {
				return
			}
			frame := c.encoder.EncodeFrame(idBody)
			if c.encOut != nil {
				out := make([]byte, len(frame))
				c.encOut.XORKeyStream(out, frame)
				frame = out
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if _, err := c.conn.Write(frame); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Server accepts TCP connections and tracks them by id. The tick loop
// reads them through Each/Get during Ingress/Egress; accept and per-connection
// I/O run on their own goroutines throughout.
type Server struct {
	listener       net.Listener
	registry       *protocol.Registry
	maxDecoderBuf  int
	maxConnections int

	mu     sync.RWMutex
	conns  map[uint64]*Connection
	nextID uint64

	newFSM func(clientIP string) *session.FSM
}

// NewServer binds addr and prepares to accept connections. newFSM builds
// a fresh session.FSM for each accepted socket (capturing connection_mode
// and server keys from the caller's configuration).
func NewServer(addr string, reg *protocol.Registry, maxDecoderBuf, maxConnections int, newFSM func(clientIP string) *session.FSM) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:       l,
		registry:       reg,
		maxDecoderBuf:  maxDecoderBuf,
		maxConnections: maxConnections,
		conns:          make(map[uint64]*Connection),
		nextID:         1,
		newFSM:         newFSM,
	}, nil
}

// Accept runs the accept loop until ctx is cancelled.
func (s *Server) Accept(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()
	for {
		c, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		s.mu.Lock()
		if s.maxConnections > 0 && len(s.conns) >= s.maxConnections {
			s.mu.Unlock()
			_ = c.Close()
			continue
		}
		id := s.nextID
		s.nextID++
		clientIP := ""
		if host, _, err := net.SplitHostPort(c.RemoteAddr().String()); err == nil {
			clientIP = host
		}
		fsm := s.newFSM(clientIP)
		conn := newConnection(id, c, s.registry, s.maxDecoderBuf, fsm)
		s.conns[id] = conn
		s.mu.Unlock()

		go conn.readLoop(func() protocol.State { return fsm.Protocol() })
		go conn.writeLoop()
	}
}

// Remove drops a connection from the tracked set (called once its FSM
// reaches PhaseDisconnected or its sockets close).
func (s *Server) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

// Get returns the tracked connection for id, if any.
func (s *Server) Get(id uint64) (*Connection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conns[id]
	return c, ok
}

// Each visits every currently tracked connection. fn must not mutate the
// tracked set; call Remove separately.
func (s *Server) Each(fn func(*Connection)) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.RUnlock()
	for _, c := range conns {
		fn(c)
	}
}

// Close shuts the listener and every tracked connection down.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	return err
}
