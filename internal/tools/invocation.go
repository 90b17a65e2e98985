package tools

import "context"

// immediate is a single-step invocation for tools that complete in one
// exchange (wallet operations, quotes).
type immediate struct {
	status Status
	run    func(ctx context.Context) (map[string]any, error)
	out    map[string]any
	err    error
}

// Immediate wraps a one-shot function as an Invocation. It starts in the
// sent state and reaches done or error on the first Step.
func Immediate(run func(ctx context.Context) (map[string]any, error)) Invocation {
	return &immediate{status: StatusSent, run: run}
}

func (i *immediate) Status() Status         { return i.status }
func (i *immediate) Output() map[string]any { return i.out }
func (i *immediate) Err() error             { return i.err }

func (i *immediate) Step(ctx context.Context) error {
	if i.status.Terminal() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		i.status = StatusError
		i.err = err
		return err
	}

	out, err := i.run(ctx)
	if err != nil {
		i.status = StatusError
		i.err = err
		return err
	}
	i.status = StatusDone
	i.out = out
	return nil
}
