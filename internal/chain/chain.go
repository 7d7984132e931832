package chain

import (
	"context"
	"log"

	"voice-chatter/internal/store"
)

// DefaultMaxDepth bounds the reply walk so a malformed reply graph with
// a cycle cannot loop forever. Real conversations stay far below it.
const DefaultMaxDepth = 256

// Resolver reconstructs the ordered context of a conversation by
// following reply pointers backward through the store.
type Resolver struct {
	store    store.Store
	maxDepth int
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s, maxDepth: DefaultMaxDepth}
}

// Resolve returns the conversation leading up to (and including) the
// record with startID, oldest first.
//
// An unknown startID, or one whose record is not part of an active
// model conversation, yields an empty chain: the message is treated as
// starting fresh. A broken link mid-walk truncates the chain at the
// break rather than failing it, so a lost record never aborts an
// otherwise valid conversation. Resolve never returns an error; store
// failures are logged and act like a missing link.
func (r *Resolver) Resolve(ctx context.Context, startID int) []store.Record {
	rec, err := r.store.Get(ctx, startID)
	if err != nil {
		log.Printf("chain: lookup %d failed: %v", startID, err)
		return nil
	}
	if rec == nil || !rec.IsChainMember {
		return nil
	}

	var acc []store.Record
	for rec != nil {
		acc = append(acc, *rec)
		if rec.ReplyTo == nil || len(acc) >= r.maxDepth {
			break
		}
		next, err := r.store.Get(ctx, *rec.ReplyTo)
		if err != nil {
			log.Printf("chain: lookup %d failed, truncating: %v", *rec.ReplyTo, err)
			break
		}
		rec = next
	}

	// Walked newest to oldest; callers want oldest first.
	for i, j := 0, len(acc)-1; i < j; i, j = i+1, j-1 {
		acc[i], acc[j] = acc[j], acc[i]
	}
	return acc
}
