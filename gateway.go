package foundations

import "context"

// Action identifies the kind of change carried by a realtime event.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is a server-side change notification delivered through a
// realtime subscription.
type Event struct {
	Action Action `json:"action"`
	Record Record `json:"record"`
}

// ListOptions filter and order a collection listing.
type ListOptions struct {
	// Filter is a gateway-side filter expression, e.g. owner = "abc".
	Filter string
	// Sort names the field to order by, "-" prefix for descending.
	Sort string
}

// UnsubscribeFunc tears down a realtime subscription.
type UnsubscribeFunc func()

// Gateway is the contract over the remote data store. Implementations
// must return an error satisfying IsNotFound when an update or delete
// targets an absent record.
//
// The core treats the gateway as an external collaborator: every error
// it returns is caught at the boundary of the calling operation and
// converted into either a queue entry or a user notification.
type Gateway interface {
	// Create inserts a record into the named collection and returns it
	// with the server-assigned identifier.
	Create(ctx context.Context, collection string, record Record) (Record, error)

	// Update replaces fields of the record with the given identifier.
	Update(ctx context.Context, collection, id string, record Record) (Record, error)

	// Delete removes the record with the given identifier.
	Delete(ctx context.Context, collection, id string) error

	// List returns all records of the collection matching the options.
	List(ctx context.Context, collection string, opts ListOptions) ([]Record, error)

	// Subscribe registers a callback for realtime change notifications
	// on the collection. The callback may be invoked from another
	// goroutine until the returned UnsubscribeFunc is called.
	Subscribe(ctx context.Context, collection string, fn func(Event)) (UnsubscribeFunc, error)
}

// Collection names used by the tracker.
const (
	CollectionProperties = "properties"
	CollectionSettings   = "user_settings"
)
