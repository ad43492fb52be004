// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
)

// SubscribeContext subscribes to s and detaches the subscription when ctx
// is done.
//
// This bounds how long the observer listens; it does not stop the upstream
// producer. If ctx is already done, nothing is subscribed and the returned
// subscription is detached.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	sub := stream.SubscribeContext(ctx, events, handle, nil)
//	<-sub.Done()
func SubscribeContext[T any](
	ctx context.Context,
	s Stream[T],
	next func(T),
	done func(),
) *Subscription {
	sub := newSubscription()
	if ctx.Err() != nil {
		sub.Detach()
		return sub
	}
	stop := context.AfterFunc(ctx, sub.Detach)
	s.run(sub, next, func() {
		stop()
		if done != nil {
			done()
		}
	})
	return sub
}
