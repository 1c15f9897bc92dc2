package mock

import (
	"sync"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

// Scheme of pools served by in-memory clients, e.g. mock://user@pool.local:3333
const Scheme = "mock"

// DefaultBehavior imitates a healthy pool
var DefaultBehavior = Behavior{
	AutoLogin:      true,
	AutoAccept:     true,
	NotifyInterval: NOTIFY_INTERVAL,
	Latency:        LATENCY,
}

func init() {
	mining.RegisterDriver(Scheme, mining.DriverFunc(func(opts mining.ClientOptions, listener mining.ClientListener) mining.Client {
		return NewClient(opts, listener, DefaultBehavior)
	}))
	mining.RegisterSolver(Algorithm, func(algo string) (mining.Solver, error) {
		return NewSolver(SOLVE_INTERVAL), nil
	})
}

// Factory creates mock clients and keeps them for inspection
type Factory struct {
	behavior Behavior
	clients  []*Client
	mu       sync.Mutex
}

func NewFactory(behavior Behavior) *Factory {
	return &Factory{behavior: behavior}
}

// NewClient has mining.ClientFactory signature
func (f *Factory) NewClient(opts mining.ClientOptions, listener mining.ClientListener) (mining.Client, error) {
	client := NewClient(opts, listener, f.behavior)

	f.mu.Lock()
	f.clients = append(f.clients, client)
	f.mu.Unlock()

	return client, nil
}

func (f *Factory) Clients() []*Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Client(nil), f.clients...)
}

// Client returns a created client by its id, nil if there is none
func (f *Factory) Client(id int) *Client {
	for _, client := range f.Clients() {
		if client.ID() == id {
			return client
		}
	}
	return nil
}
