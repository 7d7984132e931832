package store

import (
	"context"
	"time"
)

const SchemaVersion = 1

// Record is one persisted chat message that participates in history
// tracking. Records are append-only: written once when the message is
// observed, never mutated, never deleted. ReplyTo forms a backward
// pointer into earlier records; a new record only ever points at an
// already-written one.
type Record struct {
	ID            int       `bson:"id"`
	Text          string    `bson:"text"`
	ReplyTo       *int      `bson:"reply_to,omitempty"`
	Role          string    `bson:"role"`
	IsChainMember bool      `bson:"is_llm_chain"`
	SchemaVersion int       `bson:"schema_version"`
	CreatedAt     time.Time `bson:"created_at"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Store abstracts persistence of conversation records, keyed by the
// message id assigned by the chat platform.
// Get returns (nil, nil) when the id is unknown: absence terminates a
// chain walk and is not an error. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id int) (*Record, error)
}
