// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"slices"
	"testing"
)

func TestNamed(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		stream   Stream[int]
		expected []string
	}{
		{
			name:     "NoNames",
			stream:   FromSlice([]int{1}),
			expected: nil,
		},
		{
			name:     "SingleName",
			stream:   Named("outer", FromSlice([]int{1})),
			expected: []string{"outer"},
		},
		{
			name:     "NestedNames",
			stream:   Named("outer", Named("middle", Named("inner", FromSlice([]int{1})))),
			expected: []string{"outer", "middle", "inner"},
		},
		{
			name:     "OperatorsDropNames",
			stream:   Map(Named("outer", FromSlice([]int{1})), func(n int) int { return n }),
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.stream.Names(); !slices.Equal(got, tc.expected) {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestNamesAreImmutable(t *testing.T) {
	t.Parallel()
	s := Named("outer", FromSlice([]int{1}))
	names := s.Names()
	names[0] = "modified"
	if s.Name() != "outer" {
		t.Errorf("got %q, want outer - Names should return a copy", s.Name())
	}

	// Naming a copy leaves the original untouched.
	inner := Named("inner", FromSlice([]int{1}))
	_ = Named("a", inner)
	_ = Named("b", inner)
	if inner.Name() != "inner" {
		t.Errorf("got %q, want inner", inner.Name())
	}
}

func TestNamedKeepsBehavior(t *testing.T) {
	t.Parallel()
	var r recorder[int]
	r.subscribe(Named("numbers", FromSlice([]int{1, 2})))
	r.expect(t, []int{1, 2}, 1)
}

func Temperatures() Stream[int] {
	return AutoNamed(FromSlice([]int{20, 21}))
}

func instrumented[T any](s Stream[T]) Stream[T] {
	return AutoNamed(s, SkipCaller(1))
}

func Pressures() Stream[int] {
	return instrumented(FromSlice([]int{1000}))
}

func TestAutoNamed(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		stream   Stream[int]
		expected string
	}{
		{
			name:     "DirectCaller",
			stream:   Temperatures(),
			expected: "Temperatures",
		},
		{
			name:     "SkipCaller",
			stream:   Pressures(),
			expected: "Pressures",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.stream.Name(); got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestExtractFunctionName(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		fullName string
		expected string
	}{
		{"github.com/sam-fredrickson/stream.Orders", "Orders"},
		{"main.(*Server).Events", "Events"},
		{"github.com/user/pkg.init.0", "0"},
		{"Plain", "Plain"},
	}

	for _, tc := range testCases {
		t.Run(tc.fullName, func(t *testing.T) {
			t.Parallel()
			if got := extractFunctionName(tc.fullName); got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}
