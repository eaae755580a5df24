// Package router fans LayerMessages broadcasts out to other nodes running
// the same world over NATS JetStream. A single logical world can span
// multiple server processes; Router carries one
// node's locally-produced broadcasts to its peers and peers' broadcasts
// back in. Envelopes carry no message scopes, so the receiving side
// replays a peer's bytes as unscoped broadcasts.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	nats "github.com/nats-io/nats.go"
)

// Envelope is one cross-node broadcast: a layer-scoped payload produced by
// a tick on the publishing node, tagged with enough information for
// receivers to merge it into their own LayerMessages.
type Envelope struct {
	NodeID    string    `json:"node_id"`
	LayerID   string    `json:"layer_id"`
	Tick      uint64    `json:"tick"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler consumes an Envelope published by another node.
type Handler func(ctx context.Context, env Envelope)

// Router publishes and subscribes to layer broadcasts across nodes,
// creating the backing stream on first use if absent.
type Router struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	nodeID string
	stream string
}

// New connects to url and ensures a JetStream stream named stream (default
// "KESTREL_LAYERS") exists, retaining messages for retention.
func New(url, nodeID, stream string, retention time.Duration) (*Router, error) {
	if stream == "" {
		stream = "KESTREL_LAYERS"
	}
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("router: connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Drain()
		return nil, fmt.Errorf("router: jetstream context: %w", err)
	}
	if _, err := js.StreamInfo(stream); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:      stream,
			Subjects:  []string{"layers.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    retention,
			Storage:   nats.FileStorage,
		})
		if err != nil {
			nc.Drain()
			return nil, fmt.Errorf("router: add stream: %w", err)
		}
	}
	return &Router{nc: nc, js: js, nodeID: nodeID, stream: stream}, nil
}

// Publish fans data for layerID out to peer nodes. Called once per tick
// per cross-node layer from the Clear phase, with the layer's raw bytes
// read before that phase empties the buffer.
func (r *Router) Publish(ctx context.Context, layerID string, tick uint64, data []byte) error {
	env := Envelope{NodeID: r.nodeID, LayerID: layerID, Tick: tick, Data: data, Timestamp: time.Now()}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("router: marshal envelope: %w", err)
	}
	subj := "layers." + layerID
	_, err = r.js.Publish(subj, payload, nats.Context(ctx))
	return err
}

// Subscribe delivers every peer-originated broadcast for layerID to h,
// filtering out this node's own publishes by NodeID. The returned
// unsubscribe func stops delivery.
func (r *Router) Subscribe(ctx context.Context, layerID string, h Handler) (func(), error) {
	subj := "layers." + layerID
	// Durable consumer names must not contain dots; layer ids do.
	durable := strings.NewReplacer(".", "_", "*", "_", ">", "_").
		Replace(fmt.Sprintf("node_%s_%s", r.nodeID, layerID))
	sub, err := r.js.Subscribe(subj, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err == nil && env.NodeID != r.nodeID {
			h(ctx, env)
		}
		_ = msg.Ack()
	}, nats.Durable(durable), nats.ManualAck(), nats.AckWait(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("router: subscribe %s: %w", layerID, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Close drains the NATS connection.
func (r *Router) Close() error {
	return r.nc.Drain()
}
