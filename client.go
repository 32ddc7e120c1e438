package foundations

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Client is the main entry point: it wires the cache store, sync
// queue, reconciliation engine, connectivity monitor and settings sync
// together behind one handle.
type Client struct {
	cache    KVStore
	queue    *SyncQueue
	gateway  Gateway
	engine   *Engine
	settings *SettingsSync
	monitor  *Monitor
	log      *DebugLogger
	config   Config
	now      func() time.Time

	mu          sync.Mutex
	unsubscribe UnsubscribeFunc
	onReplay    func(ReplayResult)
}

// New creates a client from config, opening the local cache database
// and, when a remote URL is configured, the HTTP gateway.
func New(cfg Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := NewDebugLogger(cfg.Debug, cfg.DebugLogPath)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	cache, err := NewSQLiteStore(cfg.CachePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("client: %w", err)
	}

	var gateway Gateway
	if !cfg.IsOffline() {
		gateway = NewRemoteGateway(cfg.RemoteURL, cfg.AuthToken, log)
	}

	return newClient(cfg, cache, gateway, log), nil
}

// NewWithBackends creates a client over caller-provided cache and
// gateway implementations. Tests use it to substitute an in-memory
// store and a fake gateway.
func NewWithBackends(cfg Config, cache KVStore, gateway Gateway) *Client {
	log, _ := NewDebugLogger(cfg.Debug, cfg.DebugLogPath)
	return newClient(cfg, cache, gateway, log)
}

func newClient(cfg Config, cache KVStore, gateway Gateway, log *DebugLogger) *Client {
	monitor := NewMonitor(gateway != nil)
	queue := NewSyncQueue(cache, log)
	engine := NewEngine(cache, queue, gateway, cfg.OwnerID, monitor.Online, log)
	settings := NewSettingsSync(cache, gateway, cfg.OwnerID, monitor.Online, log)

	c := &Client{
		cache:    cache,
		queue:    queue,
		gateway:  gateway,
		engine:   engine,
		settings: settings,
		monitor:  monitor,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}

	// Queue replay fires once per offline→online transition.
	monitor.OnTransition(func(online bool) {
		if !online || gateway == nil {
			return
		}
		if queue.PendingCount() == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		result, err := queue.Process(ctx, gateway, nil)
		if err != nil {
			log.LogError("replay", err)
			return
		}
		c.reportReplay(result)
	})

	if err := engine.LoadLocal(); err != nil {
		// A corrupt snapshot must not block startup; begin empty.
		log.LogError("load cache", err)
	}

	return c
}

// Properties returns the current property collection.
func (c *Client) Properties() []Property {
	return c.engine.Properties()
}

// Get returns the property with the given ID, if present.
func (c *Client) Get(id string) (Property, bool) {
	return c.engine.Get(id)
}

// Add creates a property (optimistically local first).
func (c *Client) Add(ctx context.Context, p Property) Property {
	return c.engine.Add(ctx, p)
}

// Update replaces the property with the given ID.
func (c *Client) Update(ctx context.Context, id string, p Property) {
	c.engine.Update(ctx, id, p)
}

// Delete removes the property with the given ID.
func (c *Client) Delete(ctx context.Context, id string) {
	c.engine.Delete(ctx, id)
}

// Reconcile merges the remote collection into local state and pulls
// remote settings. Call once the owner is authenticated.
func (c *Client) Reconcile(ctx context.Context) error {
	if err := c.engine.Reconcile(ctx); err != nil {
		return err
	}
	if err := c.settings.FetchRemote(ctx); err != nil {
		// Settings are best-effort; the collection merge already
		// succeeded.
		c.log.LogError("settings fetch", err)
	}
	return nil
}

// StartRealtime begins applying server-side change notifications to
// local state. It replaces any previous subscription.
func (c *Client) StartRealtime(ctx context.Context) error {
	unsubscribe, err := c.engine.StartRealtime(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	prev := c.unsubscribe
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	return nil
}

// Sync replays the pending queue immediately, regardless of monitor
// state. Used by an explicit "sync now" action.
func (c *Client) Sync(ctx context.Context, progress ProgressFunc) (ReplayResult, error) {
	if c.gateway == nil {
		return ReplayResult{}, ErrNoGateway
	}
	result, err := c.queue.Process(ctx, c.gateway, progress)
	if err != nil {
		return result, err
	}
	c.reportReplay(result)
	return result, nil
}

// PendingCount returns the number of queued operations.
func (c *Client) PendingCount() int {
	return c.queue.PendingCount()
}

// PendingOperations returns the queued operations in enqueue order.
func (c *Client) PendingOperations() ([]QueuedOp, error) {
	return c.queue.Pending()
}

// ClearQueue discards all pending operations.
func (c *Client) ClearQueue() error {
	return c.queue.Clear()
}

// Settings returns the current settings.
func (c *Client) Settings() Settings {
	return c.settings.Settings()
}

// SetDarkMode updates the dark-mode preference.
func (c *Client) SetDarkMode(dark bool) {
	c.settings.SetDarkMode(dark)
}

// SetFormSections updates the form-section expand state.
func (c *Client) SetFormSections(sections map[string]bool) {
	c.settings.SetFormSections(sections)
}

// SaveContacts updates the professional-contacts directory.
func (c *Client) SaveContacts(contacts ProfessionalContacts) {
	c.settings.SaveContacts(contacts)
}

// SaveDestinations updates the commute destination list.
func (c *Client) SaveDestinations(destinations []CommuteDestination) {
	c.settings.SaveDestinations(destinations)
}

// SetOnline reports a connectivity transition to the monitor.
func (c *Client) SetOnline(online bool) {
	c.monitor.SetOnline(online)
}

// Online returns the current connectivity state.
func (c *Client) Online() bool {
	return c.monitor.Online()
}

// OnChange registers a callback invoked with the collection after
// every state change.
func (c *Client) OnChange(fn func([]Property)) {
	c.engine.SetOnChange(fn)
}

// OnReplay registers a callback receiving the aggregate counts of each
// queue replay, for user-facing notification.
func (c *Client) OnReplay(fn func(ReplayResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReplay = fn
}

func (c *Client) reportReplay(result ReplayResult) {
	c.mu.Lock()
	fn := c.onReplay
	c.mu.Unlock()
	if fn != nil && (result.Success > 0 || result.Failed > 0) {
		fn(result)
	}
}

// MigrationComplete reports whether the one-time legacy data migration
// has run.
func (c *Client) MigrationComplete() bool {
	raw, ok, _ := c.cache.Get(KeyMigrationComplete)
	return ok && raw == "true"
}

// MarkMigrationComplete records that the one-time legacy data
// migration has run.
func (c *Client) MarkMigrationComplete() error {
	return c.cache.Set(KeyMigrationComplete, "true")
}

// Close stops the realtime subscription, flushes any pending settings
// push and closes the cache store.
func (c *Client) Close() error {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	c.settings.Flush()

	err := c.cache.Close()
	if cerr := c.log.Close(); err == nil {
		err = cerr
	}
	return err
}
