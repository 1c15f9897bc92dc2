package mining

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopClient struct {
	opts ClientOptions
}

func (c *nopClient) ID() int                       { return c.opts.ID }
func (c *nopClient) SessionID() string             { return "" }
func (c *nopClient) Pool() Pool                    { return c.opts.Pool }
func (c *nopClient) Host() string                  { return c.opts.Pool.Host }
func (c *nopClient) Port() uint16                  { return c.opts.Pool.Port }
func (c *nopClient) IP() string                    { return "" }
func (c *nopClient) Job() Job                      { return Job{} }
func (c *nopClient) IsReady() bool                 { return false }
func (c *nopClient) Connect()                      {}
func (c *nopClient) Disconnect()                   {}
func (c *nopClient) Submit(result JobResult) int64 { return -1 }
func (c *nopClient) Tick(now time.Time)            {}

func TestRegisterDriver(t *testing.T) {
	scheme := "registry-test"
	RegisterDriver(scheme, DriverFunc(func(opts ClientOptions, listener ClientListener) Client {
		return &nopClient{opts: opts}
	}))

	require.True(t, HasDriver(scheme))

	client, err := NewClient(ClientOptions{ID: 3, Pool: Pool{Scheme: scheme, Host: "a", Port: 1}}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, client.ID())

	require.Panics(t, func() {
		RegisterDriver(scheme, DriverFunc(func(opts ClientOptions, listener ClientListener) Client { return nil }))
	})
}

func TestNewClientUnknownScheme(t *testing.T) {
	_, err := NewClient(ClientOptions{Pool: Pool{Scheme: "unknown"}}, nil)
	require.ErrorIs(t, err, ErrUnknownDriver)
}

type nopSolver struct{}

func (nopSolver) Solve(ctx context.Context, job Job, nonce uint32, step uint32, found func(JobResult)) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRegisterSolver(t *testing.T) {
	RegisterSolver("registry-test", func(algo string) (Solver, error) { return nopSolver{}, nil })

	solver, err := NewSolver("registry-test")
	require.NoError(t, err)
	require.NotNil(t, solver)

	_, err = NewSolver("unknown")
	require.ErrorIs(t, err, ErrUnknownSolver)
}
