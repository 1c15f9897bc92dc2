package network

import (
	"gitlab.com/TitanInd/netcore/internal/mining"
	"gitlab.com/TitanInd/netcore/internal/strategies"
)

type event interface{}

type connectEvent struct{}

type stopEvent struct {
	doneCh chan struct{}
}

type activeEvent struct {
	strategy strategies.Strategy
	client   mining.Client
}

type jobEvent struct {
	strategy strategies.Strategy
	client   mining.Client
	job      mining.Job
}

type pauseEvent struct {
	strategy strategies.Strategy
}

type resultAcceptedEvent struct {
	strategy strategies.Strategy
	client   mining.Client
	result   mining.SubmitResult
	err      error
}

type jobResultEvent struct {
	result mining.JobResult
}
