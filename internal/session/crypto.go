package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"
)

// KeyPair is the server's RSA keypair used for the login encryption
// handshake. Minecraft uses 1024-bit RSA with PKCS#1 padding.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  []byte // ASN.1 DER, the wire's PublicKey field
}

// GenerateKeyPair creates a fresh 1024-bit RSA keypair at server startup.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		return nil, fmt.Errorf("session: generate RSA key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("session: marshal public key: %w", err)
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}

// DecryptSharedSecret unwraps the client's RSA-PKCS1v15-encrypted shared
// secret from an EncryptionResponse.
func (kp *KeyPair) DecryptSharedSecret(encryptedSecret []byte) ([]byte, error) {
	secret, err := rsa.DecryptPKCS1v15(rand.Reader, kp.Private, encryptedSecret)
	if err != nil {
		return nil, fmt.Errorf("session: decrypt shared secret: %w", err)
	}
	return secret, nil
}

// DecryptVerifyToken unwraps the client's RSA-encrypted echo of the
// server's verify token, for equality-checking against what was sent.
func (kp *KeyPair) DecryptVerifyToken(encrypted []byte) ([]byte, error) {
	tok, err := rsa.DecryptPKCS1v15(rand.Reader, kp.Private, encrypted)
	if err != nil {
		return nil, fmt.Errorf("session: decrypt verify token: %w", err)
	}
	return tok, nil
}

// NewVerifyToken draws a fresh random verify token for one login attempt.
func NewVerifyToken() ([]byte, error) {
	tok := make([]byte, 4)
	if _, err := rand.Read(tok); err != nil {
		return nil, fmt.Errorf("session: random verify token: %w", err)
	}
	return tok, nil
}

// ServerIDHash computes Minecraft's custom "two's complement hex digest"
// of SHA-1(serverID || sharedSecret || publicKey) — the value submitted to
// and expected by Mojang's session service. Unlike a
// normal hex digest, a negative SHA-1 output (high bit set) is rendered as
// its two's-complement magnitude with a leading '-'.
func ServerIDHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	sum := h.Sum(nil)

	n := new(big.Int).SetBytes(sum)
	// SHA-1 digests are always 20 bytes; treat the result as a 160-bit
	// two's-complement signed integer.
	if sum[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 160))
		return "-" + n.Neg(n).Text(16)
	}
	return n.Text(16)
}

// MojangProfile is the authoritative profile returned by a successful
// hasJoined query.
type MojangProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IP         string `json:"ip,omitempty"`
	Properties []struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		Signature string `json:"signature,omitempty"`
	} `json:"properties"`
}

const sessionServiceURL = "https://sessionserver.mojang.com/session/minecraft/hasJoined"

// SessionServiceClient queries Mojang's session service to authenticate an
// online-mode login. Any non-200 response or
// malformed body is a fatal handshake failure.
type SessionServiceClient struct {
	http    *http.Client
	baseURL string
}

// NewSessionServiceClient creates a client with a bounded request timeout,
// so an unreachable session service is a fatal, non-retried handshake
// failure rather than a hang.
func NewSessionServiceClient() *SessionServiceClient {
	return &SessionServiceClient{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: sessionServiceURL,
	}
}

// HasJoined queries the session service for username having completed
// ServerIDHash(...) with Mojang, optionally restricted to clientIP for
// prevent_proxy_connections.
func (c *SessionServiceClient) HasJoined(ctx context.Context, username, serverHash, clientIP string) (*MojangProfile, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("serverId", serverHash)
	if clientIP != "" {
		q.Set("ip", clientIP)
	}
	reqURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("session: build session-service request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session: session-service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, fmt.Errorf("session: %s failed Mojang authentication", username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session: session-service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("session: read session-service response: %w", err)
	}
	var profile MojangProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("session: malformed session-service response: %w", err)
	}
	return &profile, nil
}
