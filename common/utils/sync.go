package utils

import (
	"context"
	"sync"
)

// WaitContext waits for wg unless ctx is done first; it reports whether wg completed.
func WaitContext(ctx context.Context, wg *sync.WaitGroup) bool {
	c := make(chan struct{})
	go func() {
		defer close(c)
		wg.Wait()
	}()
	select {
	case <-c:
		return true
	case <-ctx.Done():
		return false
	}
}
