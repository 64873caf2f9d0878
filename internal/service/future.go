package service

import (
	"context"
	"sync/atomic"

	"github.com/pageza/fridgechef/backend/internal/model"
)

const (
	futurePending int32 = iota
	futureResolving
	futureResolved
	futureCanceled
)

// Future is the single result of one asynchronous call. It completes exactly
// once, either with the call's result or by cancellation. Once canceled no
// result is ever delivered.
type Future[T any] struct {
	state  atomic.Int32
	done   chan struct{}
	cancel context.CancelFunc
	stop   func() bool

	val T
	err error
}

// Go runs fn in its own goroutine and returns its Future. Canceling ctx
// cancels the Future.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	f.stop = context.AfterFunc(ctx, func() { f.Cancel() })

	go func() {
		defer cancel()
		v, err := fn(callCtx)
		f.resolve(v, err)
	}()
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	if !f.state.CompareAndSwap(futurePending, futureResolving) {
		return
	}
	f.stop()
	f.val, f.err = v, err
	f.state.Store(futureResolved)
	close(f.done)
}

// Cancel stops the underlying call. It returns false if the Future had
// already completed.
func (f *Future[T]) Cancel() bool {
	if !f.state.CompareAndSwap(futurePending, futureCanceled) {
		return false
	}
	f.err = newError(KindCanceled, "request canceled", context.Canceled)
	close(f.done)
	f.cancel()
	return true
}

// Done is closed once the Future has completed or been canceled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Canceled reports whether the Future ended by cancellation.
func (f *Future[T]) Canceled() bool {
	return f.state.Load() == futureCanceled
}

// Await blocks until the Future completes or ctx is done. Giving up on ctx
// does not cancel the Future.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then calls cb with the result once the Future resolves. cb is never called
// if the Future is canceled.
func (f *Future[T]) Then(cb func(T, error)) {
	go func() {
		<-f.done
		if f.state.Load() == futureResolved {
			cb(f.val, f.err)
		}
	}()
}

// AnalyzeImageAsync runs chef.AnalyzeImage as a Future.
func AnalyzeImageAsync(ctx context.Context, chef Chef, image []byte) *Future[[]model.Ingredient] {
	return Go(ctx, func(ctx context.Context) ([]model.Ingredient, error) {
		return chef.AnalyzeImage(ctx, image)
	})
}

// GenerateRecipesAsync runs chef.GenerateRecipes as a Future.
func GenerateRecipesAsync(ctx context.Context, chef Chef, names []string) *Future[[]model.Recipe] {
	return Go(ctx, func(ctx context.Context) ([]model.Recipe, error) {
		return chef.GenerateRecipes(ctx, names)
	})
}
