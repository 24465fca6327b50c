package srv

import "context"

// Cleanup is a Service that only does work on shutdown, such as closing the
// database.
type Cleanup func() error

func (c Cleanup) Start(ctx context.Context) error {
	return nil
}

func (c Cleanup) Shutdown(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c()
}

func NewCleanup(fn func() error) Service {
	return Cleanup(fn)
}
