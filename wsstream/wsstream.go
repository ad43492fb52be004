// SPDX-License-Identifier: Apache-2.0

// Package wsstream carries streams over WebSocket connections, one JSON
// message per value.
package wsstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sam-fredrickson/stream"
)

// FromConn creates a stream of the JSON messages read from conn.
//
// The stream completes when the peer closes the connection normally or
// ctx is done. Any other read or decoding error is emitted as a failed
// item before completion. Each subscription reads from conn on its own
// goroutine, so a connection should be subscribed to once.
func FromConn[T any](ctx context.Context, conn *websocket.Conn) stream.Stream[stream.Item[T]] {
	return stream.New(func(next func(stream.Item[T]), done func()) {
		go func() {
			defer done()
			for {
				var v T
				err := wsjson.Read(ctx, conn, &v)
				switch {
				case err == nil:
					next(stream.Ok(v))
					continue
				case closedNormally(err), ctx.Err() != nil:
				default:
					next(stream.Failed[T](fmt.Errorf("failed to read message: %w", err)))
				}
				return
			}
		}()
	})
}

func closedNormally(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// Write sends every value of s as a JSON message on conn, blocking until s
// completes, ctx is done or a write fails.
//
// When s completes, conn is closed with [websocket.StatusNormalClosure].
// On failure the connection is left open for the caller to close.
func Write[T any](ctx context.Context, conn *websocket.Conn, s stream.Stream[T]) error {
	err := stream.ForEach(ctx, s, func(v T) error {
		if err := wsjson.Write(ctx, conn, v); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
