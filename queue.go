package foundations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Operation is the kind of mutation held in the sync queue.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// QueuedOp is one pending mutation awaiting replay against the remote
// store. The JSON shape is stable: queue snapshots written by earlier
// versions continue to parse.
type QueuedOp struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Collection string    `json:"collection"`
	Operation  Operation `json:"operation"`
	RecordID   string    `json:"recordId,omitempty"`
	Data       Record    `json:"data,omitempty"`
}

// ReplayResult reports the outcome of one queue replay pass.
type ReplayResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// ProgressFunc is called after each replayed operation with the number
// processed so far and the total.
type ProgressFunc func(processed, total int)

// SyncQueue is the durable FIFO list of mutations that could not reach
// the remote store. Operations are retained across sessions until a
// replay succeeds or the queue is cleared.
//
// The storage handle is injected so tests can substitute an in-memory
// store.
type SyncQueue struct {
	store KVStore
	log   *DebugLogger
}

// NewSyncQueue creates a queue backed by the given store.
func NewSyncQueue(store KVStore, log *DebugLogger) *SyncQueue {
	return &SyncQueue{store: store, log: log}
}

// Enqueue appends op with a freshly generated ID and timestamp.
func (q *SyncQueue) Enqueue(op QueuedOp) error {
	ops, err := q.load()
	if err != nil {
		return err
	}

	op.ID = ulid.Make().String()
	op.Timestamp = time.Now().UTC()
	ops = append(ops, op)

	return q.save(ops)
}

// PendingCount returns the number of operations currently queued.
func (q *SyncQueue) PendingCount() int {
	ops, err := q.load()
	if err != nil {
		return 0
	}
	return len(ops)
}

// Pending returns a copy of the queued operations in enqueue order.
func (q *SyncQueue) Pending() ([]QueuedOp, error) {
	return q.load()
}

// Clear discards all pending operations unconditionally.
func (q *SyncQueue) Clear() error {
	return q.save([]QueuedOp{})
}

// Process replays every queued operation against the gateway, in
// enqueue order. Each operation is atomic from the queue's point of
// view: it is either fully replayed and removed, or left untouched for
// a future pass.
//
// Recovery rules: an update that hits a missing record falls back to a
// create with the queued payload (the record may have been modified
// locally before ever reaching the server); a delete of an absent
// record counts as success since the desired end state already holds.
// Any other failure leaves the operation queued and increments the
// failure count. Afterwards the queue is rewritten to exactly the
// operations that did not succeed, preserving their relative order.
func (q *SyncQueue) Process(ctx context.Context, gw Gateway, progress ProgressFunc) (ReplayResult, error) {
	ops, err := q.load()
	if err != nil {
		return ReplayResult{}, err
	}
	if len(ops) == 0 {
		return ReplayResult{}, nil
	}

	var result ReplayResult
	remaining := make([]QueuedOp, 0, len(ops))

	for i, op := range ops {
		if err := q.replay(ctx, gw, op); err != nil {
			q.log.Logf("queue: replay %s %s/%s failed: %v", op.Operation, op.Collection, op.RecordID, err)
			remaining = append(remaining, op)
			result.Failed++
		} else {
			result.Success++
		}

		if progress != nil {
			progress(i+1, len(ops))
		}
	}

	if err := q.save(remaining); err != nil {
		return result, err
	}
	return result, nil
}

func (q *SyncQueue) replay(ctx context.Context, gw Gateway, op QueuedOp) error {
	switch op.Operation {
	case OpCreate:
		_, err := gw.Create(ctx, op.Collection, op.Data)
		return err

	case OpUpdate:
		_, err := gw.Update(ctx, op.Collection, op.RecordID, op.Data)
		if IsNotFound(err) && op.Data != nil {
			// Never reached the server; create it instead.
			_, err = gw.Create(ctx, op.Collection, op.Data)
		}
		return err

	case OpDelete:
		err := gw.Delete(ctx, op.Collection, op.RecordID)
		if IsNotFound(err) {
			// Already absent, which is the end state we wanted.
			return nil
		}
		return err

	default:
		q.log.Logf("queue: skipping unknown operation %q", op.Operation)
		return nil
	}
}

func (q *SyncQueue) load() ([]QueuedOp, error) {
	raw, ok, err := q.store.Get(KeySyncQueue)
	if err != nil {
		return nil, fmt.Errorf("queue: load: %w", err)
	}
	if !ok || raw == "" {
		return []QueuedOp{}, nil
	}

	var ops []QueuedOp
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		return nil, fmt.Errorf("queue: parse snapshot: %w", err)
	}
	return ops, nil
}

func (q *SyncQueue) save(ops []QueuedOp) error {
	raw, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("queue: encode snapshot: %w", err)
	}
	if err := q.store.Set(KeySyncQueue, string(raw)); err != nil {
		return fmt.Errorf("queue: save: %w", err)
	}
	return nil
}
