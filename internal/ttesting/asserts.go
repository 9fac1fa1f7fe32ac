// Package ttesting holds small assertion helpers shared by the package tests.
package ttesting

import (
	"reflect"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertDeepEqual(t *testing.T, name string, got, want interface{}) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertPanics runs f and reports whether it panicked with a value of the same type as want.
func AssertPanics(t *testing.T, name string, want interface{}, f func()) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Errorf("no panic; want %T", want)
				return
			}
			if reflect.TypeOf(r) != reflect.TypeOf(want) {
				t.Errorf("panicked with %T (%v); want %T", r, r, want)
			}
		}()
		f()
	})
}
