package protocol

// Handshake is the sole inbound message in StateHandshake; NextState
// selects whether the connection proceeds to StateStatus or StateLogin.
// Any other declared next state is a fatal protocol violation.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (p *Handshake) PacketID() int32 { return 0x00 }

func (p *Handshake) Encode(w *Writer) {
	w.VarInt(p.ProtocolVersion)
	w.String(p.ServerAddress, 255)
	w.U16(p.ServerPort)
	w.VarInt(p.NextState)
}

func decodeHandshake(r *Reader) Packet {
	return &Handshake{
		ProtocolVersion: r.VarInt(),
		ServerAddress:   r.String(255),
		ServerPort:      r.U16(),
		NextState:       r.VarInt(),
	}
}

// RegisterHandshake adds the handshake packet set to reg.
func RegisterHandshake(reg *Registry) {
	reg.Register(StateHandshake, Serverbound, 0x00, "handshake", decodeHandshake)
}
