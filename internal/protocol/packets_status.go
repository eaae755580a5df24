package protocol

// StatusRequest asks the server to describe itself; the server replies
// unconditionally with StatusResponse.
type StatusRequest struct{}

func (p *StatusRequest) PacketID() int32  { return 0x00 }
func (p *StatusRequest) Encode(w *Writer) {}

func decodeStatusRequest(r *Reader) Packet { return &StatusRequest{} }

// PingRequest carries an opaque payload the server must echo back verbatim.
type PingRequest struct {
	Payload int64
}

func (p *PingRequest) PacketID() int32  { return 0x01 }
func (p *PingRequest) Encode(w *Writer) { w.I64(p.Payload) }

func decodePingRequest(r *Reader) Packet { return &PingRequest{Payload: r.I64()} }

// StatusResponse carries the server-description JSON document (MOTD,
// player counts, protocol version). The text-component/JSON format itself
// is out of scope; the whole document is handed through in JSON as an
// already-serialized string.
type StatusResponse struct {
	JSON string
}

func (p *StatusResponse) PacketID() int32  { return 0x00 }
func (p *StatusResponse) Encode(w *Writer) { w.String(p.JSON, MaxTextComponentChars) }

func decodeStatusResponse(r *Reader) Packet {
	return &StatusResponse{JSON: r.String(MaxTextComponentChars)}
}

// PongResponse echoes a PingRequest's payload.
type PongResponse struct {
	Payload int64
}

func (p *PongResponse) PacketID() int32  { return 0x01 }
func (p *PongResponse) Encode(w *Writer) { w.I64(p.Payload) }

func decodePongResponse(r *Reader) Packet { return &PongResponse{Payload: r.I64()} }

// RegisterStatus adds the status packet set to reg.
func RegisterStatus(reg *Registry) {
	reg.Register(StateStatus, Serverbound, 0x00, "status_request", decodeStatusRequest)
	reg.Register(StateStatus, Serverbound, 0x01, "ping_request", decodePingRequest)
	reg.Register(StateStatus, Clientbound, 0x00, "status_response", decodeStatusResponse)
	reg.Register(StateStatus, Clientbound, 0x01, "pong_response", decodePongResponse)
}
