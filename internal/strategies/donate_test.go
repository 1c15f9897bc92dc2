package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
	"gitlab.com/TitanInd/netcore/internal/mining/mock"
)

const testUser = "wallet.worker"

func newDonateTest(t *testing.T, level int) (*Donate, *mock.Client, *listenerMock) {
	listener := &listenerMock{}
	factory := mock.NewFactory(mock.Behavior{AutoLogin: true})

	cfg := DonateConfig{
		Level: level,
		Pool:  mining.MustParsePool("mock://donate.local:3333"),
		Cycle: 100 * time.Minute,
	}

	d, err := NewDonate(cfg, testUser, "rx/0", listener, factory.NewClient, lib.NewTestLogger())
	require.NoError(t, err)
	d.jitter = func() float64 { return 0.5 }

	return d, factory.Client(mining.NoPoolID), listener
}

func TestDonateLevelRange(t *testing.T) {
	factory := mock.NewFactory(mock.Behavior{})
	pool := mining.MustParsePool("mock://donate.local:3333")

	for _, level := range []int{-1, 0, 100} {
		_, err := NewDonate(DonateConfig{Level: level, Pool: pool}, testUser, "", &listenerMock{}, factory.NewClient, lib.NewTestLogger())
		require.ErrorIs(t, err, ErrDonateLevel)
	}

	_, err := NewDonate(DonateConfig{Level: 1}, testUser, "", &listenerMock{}, factory.NewClient, lib.NewTestLogger())
	require.ErrorIs(t, err, ErrDonatePool)
}

func TestDonateClientIdentity(t *testing.T) {
	_, client, _ := newDonateTest(t, 5)

	require.NotNil(t, client)
	require.Equal(t, mining.NoPoolID, client.ID())
	require.Equal(t, DonateUser(testUser), client.Pool().User)
	require.Len(t, client.Pool().User, 64)
	require.NotEqual(t, DonateUser("another"), client.Pool().User)
	require.Equal(t, "rx/0", client.Pool().Password)
}

func TestDonateStartsWithFirstTick(t *testing.T) {
	d, client, _ := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	_, armed := d.NextSwitch()
	require.False(t, armed)

	d.Tick(now)
	switchAt, armed := d.NextSwitch()
	require.True(t, armed)
	require.Equal(t, now.Add(95*time.Minute), switchAt)
	require.Equal(t, 0, client.ConnectCalls())
}

func TestDonateRestartAfterStop(t *testing.T) {
	d, client, _ := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	d.Tick(now)
	d.Stop()
	d.Tick(now.Add(24 * time.Hour))
	require.Equal(t, 0, client.ConnectCalls())

	d.Connect()
	restart := now.Add(25 * time.Hour)
	d.Tick(restart)
	switchAt, armed := d.NextSwitch()
	require.True(t, armed)
	require.Equal(t, restart.Add(95*time.Minute), switchAt)
}

func TestDonateConnectKeepsRunningCycle(t *testing.T) {
	d, client, _ := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	d.Tick(now)
	d.Connect()
	d.Tick(now.Add(time.Minute))

	switchAt, armed := d.NextSwitch()
	require.True(t, armed)
	require.Equal(t, now.Add(95*time.Minute), switchAt)
	require.Equal(t, 0, client.ConnectCalls())
}

func TestDonateCycle(t *testing.T) {
	d, client, listener := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	d.Tick(now)

	// idle 95 minutes with jitter factor 1.0
	switchAt, armed := d.NextSwitch()
	require.True(t, armed)
	require.Equal(t, now.Add(95*time.Minute), switchAt)

	d.Tick(now.Add(94 * time.Minute))
	require.Equal(t, 0, client.ConnectCalls())
	require.False(t, d.IsActive())

	start := now.Add(95 * time.Minute)
	d.Tick(start)
	require.Equal(t, 1, client.ConnectCalls())
	require.True(t, d.IsActive())
	require.Equal(t, []string{evActive, evJob}, listener.kinds())
	require.Equal(t, Strategy(d), listener.last().strategy)
	require.Equal(t, mining.NoPoolID, listener.last().job.PoolID)

	switchAt, _ = d.NextSwitch()
	require.Equal(t, start.Add(5*time.Minute), switchAt)

	d.Tick(start.Add(5 * time.Minute))
	require.False(t, d.IsActive())
	require.False(t, client.IsReady())
	require.Equal(t, []string{evActive, evJob, evPause}, listener.kinds())

	switchAt, _ = d.NextSwitch()
	require.Equal(t, start.Add(100*time.Minute), switchAt)

	d.Tick(start.Add(100 * time.Minute))
	require.Equal(t, 2, client.ConnectCalls())
	require.True(t, d.IsActive())
}

func TestDonateFirstIdleJitter(t *testing.T) {
	d, _, _ := newDonateTest(t, 10)
	d.jitter = func() float64 { return 0 }
	now := time.Unix(10000, 0)

	d.Tick(now)

	switchAt, _ := d.NextSwitch()
	require.Equal(t, now.Add(45*time.Minute), switchAt)
}

func TestDonateConnectionLost(t *testing.T) {
	d, client, listener := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	d.Tick(now)
	start := now.Add(95 * time.Minute)
	d.Tick(start)
	require.True(t, d.IsActive())

	client.Close()

	require.False(t, d.IsActive())
	require.Equal(t, []string{evActive, evJob, evPause}, listener.kinds())

	// scheduled reconnect of the client is cancelled
	d.Tick(start.Add(time.Minute))
	require.Equal(t, 1, client.ConnectCalls())

	switchAt, _ := d.NextSwitch()
	require.Equal(t, start.Add(95*time.Minute), switchAt)
}

func TestDonateStop(t *testing.T) {
	d, client, listener := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	d.Tick(now)
	d.Tick(now.Add(95 * time.Minute))
	listener.reset()

	d.Stop()

	require.False(t, d.IsActive())
	require.False(t, client.IsReady())
	require.Empty(t, listener.kinds())
	_, armed := d.NextSwitch()
	require.False(t, armed)

	d.Tick(now.Add(24 * time.Hour))
	require.Equal(t, 1, client.ConnectCalls())
}

func TestDonateSubmit(t *testing.T) {
	d, client, listener := newDonateTest(t, 5)
	now := time.Unix(10000, 0)

	require.Equal(t, int64(-1), d.Submit(mining.JobResult{PoolID: mining.NoPoolID}))

	d.Tick(now)
	d.Tick(now.Add(95 * time.Minute))

	seq := d.Submit(mining.JobResult{PoolID: mining.NoPoolID, JobID: "1", Diff: 5})
	require.Equal(t, int64(1), seq)
	require.Len(t, client.Submitted(), 1)

	client.Respond(seq, nil)
	require.Equal(t, evResult, listener.last().kind)
	require.Equal(t, Strategy(d), listener.last().strategy)
}
