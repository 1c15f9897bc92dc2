package strategies

import (
	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/mining"
)

// New creates SinglePool strategy for exactly one pool and Failover for multiple pools
func New(pools []mining.Pool, opts Options, listener Listener, factory mining.ClientFactory, log interfaces.ILogger) (Strategy, error) {
	switch len(pools) {
	case 0:
		return nil, ErrNoPools
	case 1:
		return NewSinglePool(pools[0], opts, listener, factory, log)
	default:
		return NewFailover(pools, opts, listener, factory, log)
	}
}
