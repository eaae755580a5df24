package protocol

import "github.com/google/uuid"

// LoginStart begins the login sequence with the client's chosen username
// and, in online mode, its claimed profile id.
type LoginStart struct {
	Username string
	HasUUID  bool
	UUID     uuid.UUID
}

func (p *LoginStart) PacketID() int32 { return 0x00 }

func (p *LoginStart) Encode(w *Writer) {
	w.String(p.Username, 16)
	w.Bool(p.HasUUID)
	if p.HasUUID {
		w.UUID(p.UUID)
	}
}

func decodeLoginStart(r *Reader) Packet {
	p := &LoginStart{Username: r.String(16)}
	p.HasUUID = r.Bool()
	if p.HasUUID {
		p.UUID = r.UUID()
	}
	return p
}

// EncryptionResponse is the client's reply to EncryptionRequest: the shared
// secret and verify token, both RSA-encrypted under the server's public key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *EncryptionResponse) PacketID() int32 { return 0x01 }

func (p *EncryptionResponse) Encode(w *Writer) {
	w.VarInt(int32(len(p.SharedSecret)))
	w.ByteSlice(p.SharedSecret)
	w.VarInt(int32(len(p.VerifyToken)))
	w.ByteSlice(p.VerifyToken)
}

func decodeEncryptionResponse(r *Reader) Packet {
	secretLen := r.VarInt()
	secret := r.ByteSlice(int(secretLen))
	tokenLen := r.VarInt()
	token := r.ByteSlice(int(tokenLen))
	return &EncryptionResponse{
		SharedSecret: append([]byte(nil), secret...),
		VerifyToken:  append([]byte(nil), token...),
	}
}

// LoginDisconnect terminates the connection during login with a reason.
type LoginDisconnect struct {
	ReasonJSON string
}

func (p *LoginDisconnect) PacketID() int32  { return 0x00 }
func (p *LoginDisconnect) Encode(w *Writer) { w.String(p.ReasonJSON, MaxTextComponentChars) }

func decodeLoginDisconnect(r *Reader) Packet {
	return &LoginDisconnect{ReasonJSON: r.String(MaxTextComponentChars)}
}

// EncryptionRequest starts online-mode authentication.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (p *EncryptionRequest) PacketID() int32 { return 0x01 }

func (p *EncryptionRequest) Encode(w *Writer) {
	w.String(p.ServerID, 20)
	w.VarInt(int32(len(p.PublicKey)))
	w.ByteSlice(p.PublicKey)
	w.VarInt(int32(len(p.VerifyToken)))
	w.ByteSlice(p.VerifyToken)
}

func decodeEncryptionRequest(r *Reader) Packet {
	serverID := r.String(20)
	keyLen := r.VarInt()
	key := r.ByteSlice(int(keyLen))
	tokenLen := r.VarInt()
	token := r.ByteSlice(int(tokenLen))
	return &EncryptionRequest{
		ServerID:    serverID,
		PublicKey:   append([]byte(nil), key...),
		VerifyToken: append([]byte(nil), token...),
	}
}

// SetCompression enables frame compression for all subsequent packets, at
// or above Threshold bytes of uncompressed payload.
type SetCompression struct {
	Threshold int32
}

func (p *SetCompression) PacketID() int32  { return 0x03 }
func (p *SetCompression) Encode(w *Writer) { w.VarInt(p.Threshold) }

func decodeSetCompression(r *Reader) Packet { return &SetCompression{Threshold: r.VarInt()} }

// LoginSuccess finalizes login and transitions the connection to Play.
type LoginSuccess struct {
	UUID     uuid.UUID
	Username string
}

func (p *LoginSuccess) PacketID() int32 { return 0x02 }

func (p *LoginSuccess) Encode(w *Writer) {
	w.UUID(p.UUID)
	w.String(p.Username, 16)
	w.VarInt(0) // no profile properties (skins/capes) in this core
}

func decodeLoginSuccess(r *Reader) Packet {
	id := r.UUID()
	name := r.String(16)
	n := r.VarInt()
	for i := int32(0); i < n; i++ {
		r.String(0)
		r.String(0)
		if r.Bool() {
			r.String(0)
		}
	}
	return &LoginSuccess{UUID: id, Username: name}
}

// RegisterLogin adds the login packet set to reg.
func RegisterLogin(reg *Registry) {
	reg.Register(StateLogin, Serverbound, 0x00, "login_start", decodeLoginStart)
	reg.Register(StateLogin, Serverbound, 0x01, "encryption_response", decodeEncryptionResponse)
	reg.Register(StateLogin, Clientbound, 0x00, "login_disconnect", decodeLoginDisconnect)
	reg.Register(StateLogin, Clientbound, 0x01, "encryption_request", decodeEncryptionRequest)
	reg.Register(StateLogin, Clientbound, 0x02, "login_success", decodeLoginSuccess)
	reg.Register(StateLogin, Clientbound, 0x03, "set_compression", decodeSetCompression)
}
