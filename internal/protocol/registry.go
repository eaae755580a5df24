package protocol

import "fmt"

// State is a connection's position in the handshake → status|login → play
// state machine. Packet ids are only unique within a
// (State, Direction) pair.
type State uint8

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StatePlay:
		return "play"
	default:
		return "unknown"
	}
}

// Direction is which side of the connection sends a packet.
type Direction uint8

const (
	Serverbound Direction = iota
	Clientbound
)

// Packet is implemented by every wire message. Encode writes the packet's
// body (not the id) into w.
type Packet interface {
	// PacketID returns this variant's id within its (State, Direction).
	PacketID() int32
	Encode(w *Writer)
}

// DecodeFunc builds a zero-value Packet and decodes its body from r.
type DecodeFunc func(r *Reader) Packet

type regKey struct {
	state State
	dir   Direction
	id    int32
}

// Registry is a closed table of (state, direction, id) -> decode function,
// the discriminated-union registry of packet types.
// Encoding does not need the registry: a Packet knows its own
// id and body layout. Decoding does, since the wire only carries the id.
type Registry struct {
	decoders map[regKey]DecodeFunc
	names    map[regKey]string
}

// NewRegistry creates an empty registry; use Register to populate it, or
// RegisterPlayClientbound and the other Register* helpers for the
// predefined packet sets.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[regKey]DecodeFunc), names: make(map[regKey]string)}
}

// Register adds one packet variant. Registering the same (state, direction,
// id) twice panics — the packet table is built once at startup and any such
// collision is a programming error, never a runtime condition.
func (r *Registry) Register(state State, dir Direction, id int32, name string, fn DecodeFunc) {
	k := regKey{state, dir, id}
	if _, exists := r.decoders[k]; exists {
		panic(fmt.Sprintf("protocol: duplicate packet registration for %s/%v/0x%02x", state, dir, id))
	}
	r.decoders[k] = fn
	r.names[k] = name
}

// Decode looks up and runs the decoder for (state, dir, id). An unknown id
// in the current state is a fatal protocol violation.
func (r *Registry) Decode(state State, dir Direction, id int32, body []byte) (pkt Packet, err error) {
	fn, ok := r.decoders[regKey{state, dir, id}]
	if !ok {
		return nil, fmt.Errorf("protocol: unknown packet id 0x%02x for %s/%v", id, state, dir)
	}
	defer func() {
		if p := recover(); p != nil {
			if de, ok := p.(*DecodeError); ok {
				err = de
				return
			}
			panic(p)
		}
	}()
	reader := NewReader(body)
	pkt = fn(reader)
	return pkt, nil
}

// Name returns the registered name of a packet id, for logging/diagnostics.
func (r *Registry) Name(state State, dir Direction, id int32) string {
	if name, ok := r.names[regKey{state, dir, id}]; ok {
		return name
	}
	return "unknown"
}

// Encode serializes a packet's fields (not its id). Pair with Encoder's
// EncodePacket, which takes the id separately. Any EncodeError raised by a
// primitive write is recovered and returned.
func Encode(p Packet) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*EncodeError); ok {
				err = ee
				return
			}
			panic(r)
		}
	}()
	w := &Writer{}
	p.Encode(w)
	return w.Bytes(), nil
}

// EncodeWithID serializes a packet into one id-prefixed buffer: VarInt(id)
// followed by its fields. This is the shape LayerMessages stores, since a
// broadcast message is written once during the broadcast phase and framed
// independently per connection (with that connection's own compression
// threshold) at Egress.
func EncodeWithID(p Packet) (idBody []byte, err error) {
	body, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return append(PutVarInt(nil, p.PacketID()), body...), nil
}
