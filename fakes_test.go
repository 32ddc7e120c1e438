package foundations

import (
	"context"
	"fmt"
	"sync"
)

// fakeGateway is an in-memory Gateway for exercising the sync paths
// without HTTP. Server-assigned identifiers are deliberately
// non-numeric so they never collide with the temporary identifier
// space.
type fakeGateway struct {
	mu      sync.Mutex
	nextID  int
	records map[string]map[string]Record // collection -> id -> record
	order   map[string][]string          // collection -> ids in insert order

	failCreate bool
	failUpdate bool
	failDelete bool
	failList   bool

	createCalls int
	updateCalls int
	deleteCalls int
	listCalls   int

	handler func(Event)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		records: make(map[string]map[string]Record),
		order:   make(map[string][]string),
	}
}

func (g *fakeGateway) failure(op string) error {
	return &GatewayError{Operation: op, StatusCode: 500, Err: fmt.Errorf("injected failure")}
}

func (g *fakeGateway) notFound(op string) error {
	return &GatewayError{Operation: op, StatusCode: 404, Err: ErrNotFound}
}

func (g *fakeGateway) Create(ctx context.Context, collection string, record Record) (Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.failCreate {
		return nil, g.failure("create")
	}

	g.nextID++
	id := fmt.Sprintf("srv%06d", g.nextID)

	stored := Record{}
	for k, v := range record {
		stored[k] = v
	}
	stored["id"] = id

	if g.records[collection] == nil {
		g.records[collection] = make(map[string]Record)
	}
	g.records[collection][id] = stored
	g.order[collection] = append(g.order[collection], id)
	return stored, nil
}

func (g *fakeGateway) Update(ctx context.Context, collection, id string, record Record) (Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls++
	if g.failUpdate {
		return nil, g.failure("update")
	}

	existing, ok := g.records[collection][id]
	if !ok {
		return nil, g.notFound("update")
	}
	for k, v := range record {
		existing[k] = v
	}
	return existing, nil
}

func (g *fakeGateway) Delete(ctx context.Context, collection, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	if g.failDelete {
		return g.failure("delete")
	}

	if _, ok := g.records[collection][id]; !ok {
		return g.notFound("delete")
	}
	delete(g.records[collection], id)
	for i, oid := range g.order[collection] {
		if oid == id {
			g.order[collection] = append(g.order[collection][:i], g.order[collection][i+1:]...)
			break
		}
	}
	return nil
}

func (g *fakeGateway) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.failList {
		return nil, g.failure("list")
	}

	var out []Record
	for _, id := range g.order[collection] {
		out = append(out, g.records[collection][id])
	}
	return out, nil
}

func (g *fakeGateway) Subscribe(ctx context.Context, collection string, fn func(Event)) (UnsubscribeFunc, error) {
	g.mu.Lock()
	g.handler = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.handler = nil
		g.mu.Unlock()
	}, nil
}

// emit pushes a realtime event to the current subscriber, if any.
func (g *fakeGateway) emit(event Event) {
	g.mu.Lock()
	fn := g.handler
	g.mu.Unlock()
	if fn != nil {
		fn(event)
	}
}

// count returns the number of stored records in a collection.
func (g *fakeGateway) count(collection string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records[collection])
}

// get returns a stored record by id.
func (g *fakeGateway) get(collection, id string) (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[collection][id]
	return rec, ok
}
