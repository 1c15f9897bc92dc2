package interfaces

import "context"

// Runnable is a long-living component, Run blocks until ctx is cancelled or the component fails
type Runnable interface {
	Run(ctx context.Context) error
}
