package uploads

import "context"

// Executor performs one upload and returns the storage key of the object.
type Executor interface {
	Execute(ctx context.Context, p PendingUpload) (string, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, p PendingUpload) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, p PendingUpload) (string, error) {
	return f(ctx, p)
}
