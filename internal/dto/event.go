package dto

import (
	"encoding/json"
	"time"
)

// Mutation event kinds and entity types carried on the live channel.
const (
	EventAdd    = "add"
	EventUpdate = "update"
	EventDelete = "delete"

	EntityProduct  = "product"
	EntitySale     = "sale"
	EntityCustomer = "customer"
)

// MutationEvent describes one successful single-record mutation. Payload is
// the full post-mutation record (or, for deletes, the code that was removed)
// so subscribers never need event ordering to converge.
type MutationEvent struct {
	Kind       string    `json:"kind"`
	EntityType string    `json:"entityType"`
	Payload    any       `json:"payload"`
	Timestamp  time.Time `json:"timestamp"`
}

// ServerMessage is the envelope for everything the server pushes over the
// live channel.
// Types: "connected" | "dataUpdated" | "dataResponse" | "updateResponse".
type ServerMessage struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Success   *bool     `json:"success,omitempty"`
	Message   string    `json:"message,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is what a session may send upstream.
// Types: "requestData" | "dataUpdate".
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}
