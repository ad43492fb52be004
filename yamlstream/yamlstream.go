// SPDX-License-Identifier: Apache-2.0

// Package yamlstream reads and writes multi-document YAML as streams.
//
// Each YAML document is one value. Decoding failures are delivered as
// failed [stream.Item] values, followed by completion.
package yamlstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sam-fredrickson/stream"
)

// FromReader creates a stream of the documents read from r.
//
// r is consumed by the first subscription; later subscriptions see only
// what is left of it.
func FromReader[T any](r io.Reader) stream.Stream[stream.Item[T]] {
	return stream.FromDecoder[T](yaml.NewDecoder(r))
}

// FromBytes creates a stream of the documents in data. Every subscription
// decodes data again.
func FromBytes[T any](data []byte) stream.Stream[stream.Item[T]] {
	return stream.New(func(next func(stream.Item[T]), done func()) {
		FromReader[T](bytes.NewReader(data)).Subscribe(next, done)
	})
}

// FromFile creates a stream of the documents in the named file. Every
// subscription reads the file again, which makes the stream suitable for
// reloading configuration.
//
// Example:
//
//	configs := stream.FlatMap(changes, func(fsnotify.Event) stream.Stream[stream.Item[Config]] {
//	    return yamlstream.FromFile[Config]("config.yaml")
//	})
func FromFile[T any](name string) stream.Stream[stream.Item[T]] {
	return stream.New(func(next func(stream.Item[T]), done func()) {
		f, err := os.Open(name)
		if err != nil {
			next(stream.Failed[T](fmt.Errorf("failed to open %s: %w", name, err)))
			done()
			return
		}
		defer func() { _ = f.Close() }()
		FromReader[T](f).Subscribe(next, done)
	})
}

// Write encodes every value of s as a YAML document to w, blocking until s
// completes, ctx is done or encoding fails.
func Write[T any](ctx context.Context, w io.Writer, s stream.Stream[T]) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := stream.ForEach(ctx, s, func(v T) error {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		return nil
	})
	if closeErr := enc.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close encoder: %w", closeErr)
	}
	return err
}
