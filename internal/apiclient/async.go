package apiclient

import "context"

// Result es el valor o el error de una llamada asincronica.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Async ejecuta fn en una goroutine y entrega exactamente un Result por el canal.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}

// Await espera el resultado o la cancelacion del contexto.
func Await[T any](ctx context.Context, ch <-chan Result[T]) Result[T] {
	select {
	case r, ok := <-ch:
		if !ok {
			var zero T
			return Result[T]{Value: zero, Err: context.Canceled}
		}
		return r
	case <-ctx.Done():
		var zero T
		return Result[T]{Value: zero, Err: ctx.Err()}
	}
}
