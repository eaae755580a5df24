package session

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kestrelmc/kestrel/internal/protocol"
)

// AuthCache optionally short-circuits the Mojang session-service round
// trip in HandleEncryptionResponse, keyed by the server-id hash
// (satisfied by *internal/cache.Cache). Left nil, every online-mode
// login queries Mojang directly.
type AuthCache interface {
	LoadAuthResult(ctx context.Context, serverHash string) ([]byte, error)
	SaveAuthResult(ctx context.Context, serverHash string, profileJSON []byte) error
}

// Phase mirrors protocol.State but is owned by the session package so
// transition rules live next to the state they guard, rather than in the
// registry that merely indexes packets by state.
type Phase uint8

const (
	PhaseHandshake Phase = iota
	PhaseStatus
	PhaseLogin
	PhaseAwaitingEncryption
	PhaseAwaitingAuth
	PhasePlay
	PhaseDisconnected
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "handshake"
	case PhaseStatus:
		return "status"
	case PhaseLogin:
		return "login"
	case PhaseAwaitingEncryption:
		return "awaiting_encryption"
	case PhaseAwaitingAuth:
		return "awaiting_auth"
	case PhasePlay:
		return "play"
	case PhaseDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ConnectionMode mirrors the server.connection_mode config knob: online
// does a full Mojang handshake, offline derives a UUID from
// the username, and velocity/bungeecord trust a proxy-forwarded profile.
type ConnectionMode uint8

const (
	ModeOnline ConnectionMode = iota
	ModeOffline
	ModeVelocity
	ModeBungeeCord
)

// Identity is the resolved player identity a connection carries into Play.
type Identity struct {
	UUID     uuid.UUID
	Username string
}

// FSM drives one connection through Handshake → Status|Login → Play. It
// does not own the socket; the caller (internal/game) feeds decoded
// packets in and receives packets-to-send plus terminal errors out.
type FSM struct {
	phase Phase

	mode                    ConnectionMode
	preventProxyConnections bool
	compressionThreshold    int32
	serverID                string
	clientIP                string

	keys          *KeyPair
	verifyToken   []byte
	sharedSecret  []byte
	sessionClient *SessionServiceClient
	authCache     AuthCache

	handshake       Handshake
	identity        Identity
	pendingUsername string
}

// Handshake is the subset of the wire Handshake packet the FSM needs to
// remember across the Status/Login branch.
type Handshake struct {
	ProtocolVersion int32
}

// NewFSM creates an FSM in PhaseHandshake for one freshly accepted TCP
// connection. keys may be nil when mode is not ModeOnline.
func NewFSM(mode ConnectionMode, preventProxy bool, compressionThreshold int32, serverID, clientIP string, keys *KeyPair) *FSM {
	return &FSM{
		phase:                   PhaseHandshake,
		mode:                    mode,
		preventProxyConnections: preventProxy,
		compressionThreshold:    compressionThreshold,
		serverID:                serverID,
		clientIP:                clientIP,
		keys:                    keys,
		sessionClient:           NewSessionServiceClient(),
	}
}

// SetAuthCache installs cache as this connection's AuthCache. Called right
// after NewFSM, before any packets are fed in; nil disables caching.
func (f *FSM) SetAuthCache(cache AuthCache) { f.authCache = cache }

// Phase returns the connection's current state.
func (f *FSM) Phase() Phase { return f.phase }

// Identity returns the resolved player identity. Valid only once Phase()
// is PhasePlay.
func (f *FSM) Identity() Identity { return f.identity }

// Protocol maps the connection's Phase onto the protocol.State its packet
// registry is keyed by, so the socket reader knows which packet set to
// decode against. AwaitingEncryption/AwaitingAuth are still mid-login.
func (f *FSM) Protocol() protocol.State {
	switch f.phase {
	case PhaseHandshake:
		return protocol.StateHandshake
	case PhaseStatus:
		return protocol.StateStatus
	case PhaseLogin, PhaseAwaitingEncryption, PhaseAwaitingAuth:
		return protocol.StateLogin
	default:
		return protocol.StatePlay
	}
}

// errFatal marks a handshake violation that must close the connection
// without a disconnect packet.
type errFatal struct{ msg string }

func (e *errFatal) Error() string { return e.msg }

// HandleHandshake processes the single StateHandshake packet and selects
// the Status or Login branch.
func (f *FSM) HandleHandshake(pkt *protocol.Handshake) error {
	if f.phase != PhaseHandshake {
		return &errFatal{"handshake packet received outside PhaseHandshake"}
	}
	switch pkt.NextState {
	case 1:
		f.phase = PhaseStatus
	case 2:
		f.phase = PhaseLogin
	default:
		return &errFatal{fmt.Sprintf("invalid handshake next_state %d", pkt.NextState)}
	}
	f.handshake = Handshake{ProtocolVersion: pkt.ProtocolVersion}
	return nil
}

// HandleLoginStart begins the login sequence. It returns the packets to
// send immediately: an EncryptionRequest in online mode, or nothing while
// the caller should instead call FinishOfflineLogin in offline mode.
func (f *FSM) HandleLoginStart(pkt *protocol.LoginStart) ([]protocol.Packet, error) {
	if f.phase != PhaseLogin {
		return nil, &errFatal{"login start received outside PhaseLogin"}
	}
	f.pendingUsername = pkt.Username
	if f.mode != ModeOnline {
		return nil, nil
	}
	if f.keys == nil {
		return nil, &errFatal{"online mode requires a server keypair"}
	}
	token, err := NewVerifyToken()
	if err != nil {
		return nil, err
	}
	f.verifyToken = token
	f.handshake = Handshake{ProtocolVersion: f.handshake.ProtocolVersion}
	f.phase = PhaseAwaitingEncryption
	return []protocol.Packet{&protocol.EncryptionRequest{
		ServerID:    f.serverID,
		PublicKey:   f.keys.Public,
		VerifyToken: f.verifyToken,
	}}, nil
}

// FinishOfflineLogin resolves the offline-mode identity (UUID v3 derived
// from "OfflinePlayer:"+username, matching vanilla's
// UUID.nameUUIDFromBytes) and returns the LoginSuccess (plus an optional
// leading SetCompression) to send.
func (f *FSM) FinishOfflineLogin(username string) []protocol.Packet {
	f.identity = Identity{UUID: OfflineUUID(username), Username: username}
	return f.finishLogin()
}

// OfflineUUID derives the deterministic offline-mode player UUID from a
// username, matching vanilla Minecraft's
// UUID.nameUUIDFromBytes(("OfflinePlayer:" + username).getBytes(UTF_8)) —
// an MD5-based UUIDv3 over that exact byte string.
func OfflineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	return uuid.UUID(sum)
}

// HandleEncryptionResponse decrypts the client's shared secret/verify
// token, validates the verify token, and performs the Mojang
// session-service handshake. On success it returns the packets to send
// (SetCompression + LoginSuccess) and the shared secret the caller must
// install on the connection's stream cipher before sending them.
func (f *FSM) HandleEncryptionResponse(ctx context.Context, pkt *protocol.EncryptionResponse) ([]protocol.Packet, []byte, error) {
	if f.phase != PhaseAwaitingEncryption {
		return nil, nil, &errFatal{"encryption response received outside PhaseAwaitingEncryption"}
	}
	secret, err := f.keys.DecryptSharedSecret(pkt.SharedSecret)
	if err != nil {
		return nil, nil, &errFatal{"could not decrypt shared secret"}
	}
	token, err := f.keys.DecryptVerifyToken(pkt.VerifyToken)
	if err != nil {
		return nil, nil, &errFatal{"could not decrypt verify token"}
	}
	if !constantTimeEqual(token, f.verifyToken) {
		return nil, nil, &errFatal{"verify token mismatch"}
	}
	f.sharedSecret = secret

	ip := ""
	if f.preventProxyConnections {
		ip = f.clientIP
	}
	hash := ServerIDHash(f.serverID, secret, f.keys.Public)
	profile, err := f.hasJoinedCached(ctx, hash, ip)
	if err != nil {
		return nil, nil, err
	}
	id, err := uuid.Parse(profile.ID)
	if err != nil {
		// Mojang returns UUIDs without dashes; retry with them inserted.
		id, err = uuid.Parse(insertUUIDDashes(profile.ID))
		if err != nil {
			return nil, nil, &errFatal{"session service returned a malformed profile id"}
		}
	}
	f.identity = Identity{UUID: id, Username: profile.Name}
	f.phase = PhaseAwaitingAuth
	return f.finishLogin(), secret, nil
}

// hasJoinedCached checks authCache for a cached verdict on hash before
// falling back to the real Mojang query, then caches a fresh result —
// avoids a second session-service round trip when a client's connection
// flaps and retries the handshake within the cache's TTL.
func (f *FSM) hasJoinedCached(ctx context.Context, hash, ip string) (*MojangProfile, error) {
	if f.authCache != nil {
		if data, err := f.authCache.LoadAuthResult(ctx, hash); err == nil {
			var cached MojangProfile
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}
	profile, err := f.sessionClient.HasJoined(ctx, f.pendingUsername, hash, ip)
	if err != nil {
		return nil, err
	}
	if f.authCache != nil {
		if data, err := json.Marshal(profile); err == nil {
			_ = f.authCache.SaveAuthResult(ctx, hash, data)
		}
	}
	return profile, nil
}

func (f *FSM) finishLogin() []protocol.Packet {
	f.phase = PhasePlay
	pkts := make([]protocol.Packet, 0, 2)
	if f.compressionThreshold >= 0 {
		pkts = append(pkts, &protocol.SetCompression{Threshold: f.compressionThreshold})
	}
	pkts = append(pkts, &protocol.LoginSuccess{UUID: f.identity.UUID, Username: f.identity.Username})
	return pkts
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

func insertUUIDDashes(s string) string {
	if len(s) != 32 {
		return s
	}
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}
