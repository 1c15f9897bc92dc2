package strategies

import (
	"sync"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

const (
	evActive = "active"
	evJob    = "job"
	evPause  = "pause"
	evResult = "result"
)

type event struct {
	kind     string
	strategy Strategy
	client   mining.Client
	job      mining.Job
	result   mining.SubmitResult
	err      error
}

type listenerMock struct {
	events []event
	mu     sync.Mutex
}

func (l *listenerMock) OnActive(strategy Strategy, client mining.Client) {
	l.add(event{kind: evActive, strategy: strategy, client: client})
}

func (l *listenerMock) OnJob(strategy Strategy, client mining.Client, job mining.Job) {
	l.add(event{kind: evJob, strategy: strategy, client: client, job: job})
}

func (l *listenerMock) OnPause(strategy Strategy) {
	l.add(event{kind: evPause, strategy: strategy})
}

func (l *listenerMock) OnResultAccepted(strategy Strategy, client mining.Client, result mining.SubmitResult, err error) {
	l.add(event{kind: evResult, strategy: strategy, client: client, result: result, err: err})
}

func (l *listenerMock) add(ev event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *listenerMock) kinds() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	kinds := make([]string, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.kind
	}
	return kinds
}

func (l *listenerMock) last() event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}

func (l *listenerMock) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
