package network

import "gitlab.com/TitanInd/netcore/internal/mining"

// Workers compute results for the current job
type Workers interface {
	SetListener(listener mining.JobResultListener)
	SetJob(job mining.Job, donate bool)
	Pause()
}

// Reporter is notified about everything user facing: pool selection, messages and periodic state
type Reporter interface {
	OnPoolSelected(host string, port uint16, ip string)
	OnPoolDisconnect(reason string)
	OnMessage(msg string)
	Tick(state State)
}
