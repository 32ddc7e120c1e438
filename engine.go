package foundations

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Engine owns the in-memory property collection and reconciles its
// three input sources: the local cache read at startup, the server
// fetch performed once authenticated, and realtime change
// notifications. User-initiated mutations apply optimistically to
// local state first and reach the remote store afterwards, falling
// back to the sync queue on failure.
//
// Every state change persists the complete collection snapshot to the
// cache, so concurrent writers can never leave a single entity half
// written. Conflicting inputs resolve by idempotent merge: duplicate
// create notifications are ignored, updates and deletes of unknown
// entities are no-ops.
type Engine struct {
	mu    sync.RWMutex
	props []Property

	cache   KVStore
	queue   *SyncQueue
	gateway Gateway
	ownerID string
	online  func() bool
	log     *DebugLogger

	onChange func([]Property)
	now      func() time.Time
}

// NewEngine creates an engine. gateway may be nil for offline-only
// operation; online reports current connectivity and may be nil, in
// which case the engine assumes it is online whenever a gateway is
// configured.
func NewEngine(cache KVStore, queue *SyncQueue, gateway Gateway, ownerID string, online func() bool, log *DebugLogger) *Engine {
	return &Engine{
		cache:   cache,
		queue:   queue,
		gateway: gateway,
		ownerID: ownerID,
		online:  online,
		log:     log,
		now:     time.Now,
	}
}

// SetOnChange registers a callback invoked with a snapshot of the
// collection after every state change. Used by presentation layers to
// re-render.
func (e *Engine) SetOnChange(fn func([]Property)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Properties returns a copy of the current collection.
func (e *Engine) Properties() []Property {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Property, len(e.props))
	copy(out, e.props)
	return out
}

// Get returns the property with the given ID, if present.
func (e *Engine) Get(id string) (Property, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.props {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// LoadLocal reads the cached collection snapshot and makes it the
// current state. It never touches the network, so callers can render
// immediately at startup.
func (e *Engine) LoadLocal() error {
	raw, ok, err := e.cache.Get(KeyProperties)
	if err != nil {
		return fmt.Errorf("engine: load cache: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	var props []Property
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return fmt.Errorf("engine: parse cache snapshot: %w", err)
	}

	for i := range props {
		props[i] = MergeDefaults(props[i])
	}

	e.mu.Lock()
	e.props = props
	e.mu.Unlock()
	e.notify()
	return nil
}

// Reconcile fetches the owner's full remote collection and merges it
// with local state. Local entities still carrying a temporary
// identifier and unknown to the server are pushed up; on success their
// temporary identifier is replaced by the server-assigned one. The
// merged set becomes the new local state and cache snapshot.
func (e *Engine) Reconcile(ctx context.Context) error {
	if e.gateway == nil {
		return ErrNoGateway
	}

	records, err := e.gateway.List(ctx, CollectionProperties, ListOptions{
		Filter: fmt.Sprintf("owner = %q", e.ownerID),
		Sort:   "-created",
	})
	if err != nil {
		return fmt.Errorf("engine: fetch collection: %w", err)
	}

	merged := make([]Property, 0, len(records))
	serverIDs := make(map[string]struct{}, len(records))
	for _, rec := range records {
		p := MergeDefaults(FromRecord(rec))
		merged = append(merged, p)
		serverIDs[p.ID] = struct{}{}
	}

	// Entities created while signed out or offline never reached the
	// server; push them now.
	for _, local := range e.Properties() {
		if !IsTemporaryID(local.ID) {
			continue
		}
		if _, onServer := serverIDs[local.ID]; onServer {
			continue
		}

		created, err := e.gateway.Create(ctx, CollectionProperties, ToRecord(local, e.ownerID))
		if err != nil {
			e.log.LogError("reconcile push", err)
			merged = append(merged, local)
			continue
		}
		merged = append(merged, MergeDefaults(FromRecord(created)))
	}

	e.setState(merged)
	return nil
}

// StartRealtime subscribes to server-side change notifications and
// feeds them into ApplyEvent until the returned UnsubscribeFunc is
// called.
func (e *Engine) StartRealtime(ctx context.Context) (UnsubscribeFunc, error) {
	if e.gateway == nil {
		return nil, ErrNoGateway
	}
	return e.gateway.Subscribe(ctx, CollectionProperties, e.ApplyEvent)
}

// ApplyEvent merges one realtime notification into local state.
//
// A create for an identifier already present locally is ignored: that
// is the echo of this client's own creation arriving back, and
// applying it would duplicate the entity. Updates replace the matching
// entity and are no-ops when it is absent; deletes remove the matching
// entity if present. These rules make races with in-flight local
// mutations safe without locking across the network call.
func (e *Engine) ApplyEvent(event Event) {
	p := MergeDefaults(FromRecord(event.Record))
	if p.ID == "" {
		return
	}

	e.mu.Lock()
	switch event.Action {
	case ActionCreate:
		if e.indexOf(p.ID) >= 0 {
			e.mu.Unlock()
			return
		}
		e.props = append([]Property{p}, e.props...)

	case ActionUpdate:
		i := e.indexOf(p.ID)
		if i < 0 {
			e.mu.Unlock()
			return
		}
		e.props[i] = p

	case ActionDelete:
		i := e.indexOf(p.ID)
		if i < 0 {
			e.mu.Unlock()
			return
		}
		e.props = append(e.props[:i], e.props[i+1:]...)

	default:
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	e.persist()
	e.notify()
}

// Add creates a property. The entity receives a temporary identifier
// and is stored locally before any network traffic; if the remote
// create succeeds the identifier is replaced in place with the
// server-assigned one, otherwise the operation is queued for replay.
// The returned property reflects the final identifier.
func (e *Engine) Add(ctx context.Context, p Property) Property {
	now := e.now().UTC()
	p.ID = NewTemporaryID(now)
	p.DateAdded = now.Format(time.RFC3339)
	p = MergeDefaults(p)

	e.mu.Lock()
	e.props = append(e.props, p)
	e.mu.Unlock()
	e.persist()
	e.notify()

	if !e.authenticated() {
		return p
	}

	record := ToRecord(p, e.ownerID)
	if !e.isOnline() {
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpCreate, Data: record})
		return p
	}

	created, err := e.gateway.Create(ctx, CollectionProperties, record)
	if err != nil {
		e.log.LogError("create", err)
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpCreate, Data: record})
		return p
	}

	if newID := created.ID(); newID != "" {
		e.remapID(p.ID, newID)
		p.ID = newID
	}
	return p
}

// Update replaces the entity with the given identifier. Local state
// changes first; the remote update follows. When the remote store has
// never seen the record (NotFound) the engine re-reads the current
// entity and creates it instead — deliberately pushing the newest
// local state rather than the payload that triggered the fallback.
func (e *Engine) Update(ctx context.Context, id string, p Property) {
	p.ID = id
	p = MergeDefaults(p)

	e.mu.Lock()
	if i := e.indexOf(id); i >= 0 {
		e.props[i] = p
	}
	e.mu.Unlock()
	e.persist()
	e.notify()

	if !e.authenticated() {
		return
	}

	record := ToRecord(p, e.ownerID)
	if !e.isOnline() {
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpUpdate, RecordID: id, Data: record})
		return
	}

	_, err := e.gateway.Update(ctx, CollectionProperties, id, record)
	if err == nil {
		return
	}

	if !IsNotFound(err) {
		e.log.LogError("update", err)
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpUpdate, RecordID: id, Data: record})
		return
	}

	// Most-recent-wins: the entity may have changed again while the
	// failed update was in flight, so push whatever is current now.
	current, ok := e.Get(id)
	if !ok {
		return
	}
	fullRecord := ToRecord(current, e.ownerID)

	created, err := e.gateway.Create(ctx, CollectionProperties, fullRecord)
	if err != nil {
		e.log.LogError("update fallback create", err)
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpCreate, Data: fullRecord})
		return
	}
	if newID := created.ID(); newID != "" {
		e.remapID(id, newID)
	}
}

// Delete removes the entity with the given identifier locally and
// from the remote store, queueing the remote delete on failure. An
// already-absent remote record counts as done.
func (e *Engine) Delete(ctx context.Context, id string) {
	e.mu.Lock()
	if i := e.indexOf(id); i >= 0 {
		e.props = append(e.props[:i], e.props[i+1:]...)
	}
	e.mu.Unlock()
	e.persist()
	e.notify()

	if !e.authenticated() {
		return
	}

	if !e.isOnline() {
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpDelete, RecordID: id})
		return
	}

	if err := e.gateway.Delete(ctx, CollectionProperties, id); err != nil && !IsNotFound(err) {
		e.log.LogError("delete", err)
		e.enqueue(QueuedOp{Collection: CollectionProperties, Operation: OpDelete, RecordID: id})
	}
}

// ReplaceAll swaps in an entirely new collection, normalising each
// entity. Used by the import path.
func (e *Engine) ReplaceAll(props []Property) {
	normalised := make([]Property, len(props))
	for i, p := range props {
		normalised[i] = MergeDefaults(p)
	}

	e.mu.Lock()
	e.props = normalised
	e.mu.Unlock()
	e.persist()
	e.notify()
}

// remapID replaces a temporary identifier with the server-assigned one
// in place. The entity keeps its position; no duplicate is created.
func (e *Engine) remapID(oldID, newID string) {
	e.mu.Lock()
	if i := e.indexOf(oldID); i >= 0 {
		e.props[i].ID = newID
	}
	e.mu.Unlock()
	e.persist()
	e.notify()
}

// indexOf returns the position of the entity with the given ID, or -1.
// Caller must hold e.mu.
func (e *Engine) indexOf(id string) int {
	for i, p := range e.props {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) setState(props []Property) {
	e.mu.Lock()
	e.props = props
	e.mu.Unlock()
	e.persist()
	e.notify()
}

// persist writes the complete collection snapshot to the cache. Write
// failures degrade durability for the session but not correctness of
// the in-memory state, so they are logged and swallowed here.
func (e *Engine) persist() {
	e.mu.RLock()
	raw, err := json.Marshal(e.props)
	e.mu.RUnlock()
	if err != nil {
		e.log.LogError("persist encode", err)
		return
	}
	if err := e.cache.Set(KeyProperties, string(raw)); err != nil {
		e.log.LogError("persist", err)
	}
}

func (e *Engine) notify() {
	e.mu.RLock()
	fn := e.onChange
	e.mu.RUnlock()
	if fn != nil {
		fn(e.Properties())
	}
}

func (e *Engine) enqueue(op QueuedOp) {
	if err := e.queue.Enqueue(op); err != nil {
		e.log.LogError("enqueue", err)
	}
}

func (e *Engine) authenticated() bool {
	return e.gateway != nil && e.ownerID != ""
}

func (e *Engine) isOnline() bool {
	if e.online == nil {
		return true
	}
	return e.online()
}
