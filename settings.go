package foundations

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// settingsSyncDelay is the debounce window for pushing settings to the
// remote store. A burst of toggles results in a single upsert carrying
// the final state.
const settingsSyncDelay = 2 * time.Second

// SettingsSync keeps per-owner settings cached locally and mirrored to
// the user_settings collection. The remote record is a lazy singleton:
// it is created on the first push and updated thereafter.
type SettingsSync struct {
	mu       sync.Mutex
	settings Settings

	cache    KVStore
	gateway  Gateway
	ownerID  string
	online   func() bool
	log      *DebugLogger
	debounce *Debouncer
}

// NewSettingsSync creates a settings manager seeded from the local
// cache. gateway may be nil for offline-only operation.
func NewSettingsSync(cache KVStore, gateway Gateway, ownerID string, online func() bool, log *DebugLogger) *SettingsSync {
	s := &SettingsSync{
		settings: DefaultSettings(),
		cache:    cache,
		gateway:  gateway,
		ownerID:  ownerID,
		online:   online,
		log:      log,
		debounce: NewDebouncer(settingsSyncDelay),
	}
	s.loadLocal()
	return s
}

// Settings returns a copy of the current settings.
func (s *SettingsSync) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetDarkMode updates the dark-mode preference.
func (s *SettingsSync) SetDarkMode(dark bool) {
	s.mu.Lock()
	s.settings.DarkMode = dark
	s.mu.Unlock()

	s.persistKey(KeyDarkMode, fmt.Sprintf("%t", dark))
	s.scheduleSync()
}

// SetFormSections updates the form-section expand state.
func (s *SettingsSync) SetFormSections(sections map[string]bool) {
	s.mu.Lock()
	s.settings.FormSections = sections
	s.mu.Unlock()

	s.persistJSON(KeyFormSections, sections)
	s.scheduleSync()
}

// SaveContacts updates the professional-contacts directory.
func (s *SettingsSync) SaveContacts(contacts ProfessionalContacts) {
	s.mu.Lock()
	s.settings.ProfessionalContacts = contacts
	s.mu.Unlock()

	s.persistJSON(KeyContacts, contacts)
	s.scheduleSync()
}

// SaveDestinations updates the commute destination list.
func (s *SettingsSync) SaveDestinations(destinations []CommuteDestination) {
	s.mu.Lock()
	s.settings.CommuteDestinations = destinations
	s.mu.Unlock()

	s.persistJSON(KeyCommuteDestinations, destinations)
	s.scheduleSync()
}

// FetchRemote pulls the owner's settings record from the remote store
// and merges it over local state. Missing remote record is not an
// error; the local defaults stand.
func (s *SettingsSync) FetchRemote(ctx context.Context) error {
	if s.gateway == nil {
		return ErrNoGateway
	}

	records, err := s.gateway.List(ctx, CollectionSettings, ListOptions{
		Filter: fmt.Sprintf("owner = %q", s.ownerID),
	})
	if err != nil {
		return fmt.Errorf("settings: fetch: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	rec := records[0]

	s.mu.Lock()
	if v, ok := rec["dark_mode"].(bool); ok {
		s.settings.DarkMode = v
	}
	if v, ok := rec["form_sections"]; ok && v != nil {
		sections := DefaultFormSections()
		decodeJSONValue(v, &sections)
		s.settings.FormSections = sections
	}
	if v, ok := rec["professional_contacts"]; ok && v != nil {
		contacts := s.settings.ProfessionalContacts
		decodeJSONValue(v, &contacts)
		s.settings.ProfessionalContacts = contacts
	}
	if v, ok := rec["commute_destinations"]; ok && v != nil {
		var destinations []CommuteDestination
		if decodeJSONValue(v, &destinations) && len(destinations) > 0 {
			s.settings.CommuteDestinations = destinations
		}
	}
	current := s.settings
	s.mu.Unlock()

	s.persistKey(KeyDarkMode, fmt.Sprintf("%t", current.DarkMode))
	s.persistJSON(KeyFormSections, current.FormSections)
	s.persistJSON(KeyContacts, current.ProfessionalContacts)
	s.persistJSON(KeyCommuteDestinations, current.CommuteDestinations)
	return nil
}

// Flush pushes any pending debounced sync immediately. Used on
// shutdown.
func (s *SettingsSync) Flush() {
	s.debounce.Flush()
}

// scheduleSync arms the debounced remote push. Re-arming before the
// window elapses supersedes the earlier pending push.
func (s *SettingsSync) scheduleSync() {
	if s.gateway == nil || s.ownerID == "" {
		return
	}
	if s.online != nil && !s.online() {
		return
	}

	s.debounce.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.pushNow(ctx); err != nil {
			s.log.LogError("settings sync", err)
		}
	})
}

// pushNow upserts the settings record for the owner: the first
// matching record is updated, otherwise one is created.
func (s *SettingsSync) pushNow(ctx context.Context) error {
	s.mu.Lock()
	current := s.settings
	s.mu.Unlock()

	record := Record{
		"owner":                 s.ownerID,
		"dark_mode":             current.DarkMode,
		"form_sections":         current.FormSections,
		"professional_contacts": current.ProfessionalContacts,
		"commute_destinations":  current.CommuteDestinations,
	}

	records, err := s.gateway.List(ctx, CollectionSettings, ListOptions{
		Filter: fmt.Sprintf("owner = %q", s.ownerID),
	})
	if err != nil {
		return err
	}

	if len(records) > 0 {
		_, err = s.gateway.Update(ctx, CollectionSettings, records[0].ID(), record)
	} else {
		_, err = s.gateway.Create(ctx, CollectionSettings, record)
	}
	return err
}

// loadLocal seeds settings from the cache, tolerating missing or
// malformed values by falling back to defaults per key.
func (s *SettingsSync) loadLocal() {
	if raw, ok, _ := s.cache.Get(KeyDarkMode); ok {
		s.settings.DarkMode = raw == "true"
	}
	if raw, ok, _ := s.cache.Get(KeyFormSections); ok {
		var saved map[string]bool
		if json.Unmarshal([]byte(raw), &saved) == nil {
			sections := DefaultFormSections()
			for k, v := range saved {
				sections[k] = v
			}
			s.settings.FormSections = sections
		}
	}
	if raw, ok, _ := s.cache.Get(KeyContacts); ok {
		var contacts ProfessionalContacts
		if json.Unmarshal([]byte(raw), &contacts) == nil {
			s.settings.ProfessionalContacts = contacts
		}
	}
	if raw, ok, _ := s.cache.Get(KeyCommuteDestinations); ok {
		var destinations []CommuteDestination
		if json.Unmarshal([]byte(raw), &destinations) == nil && len(destinations) > 0 {
			s.settings.CommuteDestinations = destinations
		}
	}
}

// persistKey writes a cache value. Local write failures degrade
// durability only, so they are logged and swallowed.
func (s *SettingsSync) persistKey(key, value string) {
	if err := s.cache.Set(key, value); err != nil {
		s.log.LogError("settings persist", err)
	}
}

func (s *SettingsSync) persistJSON(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.LogError("settings encode", err)
		return
	}
	s.persistKey(key, string(raw))
}

// decodeJSONValue re-encodes a loosely typed gateway value into out.
// Returns false when the value cannot be represented.
func decodeJSONValue(v any, out any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
