package services_test

import (
	"errors"
	"fmt"
	"testing"

	"slated/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := services.Wrap(services.ErrIO, "writeback", "commit", "write staged bytes", cause)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToIO(t *testing.T) {
	err := services.Wrap(nil, "mirror", "copy", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO fallback, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrUnsupportedFormat, "resolver", "open", "", nil), "unsupported_format"},
		{services.Wrap(services.ErrNotFound, "resolver", "stat", "", nil), "not_found"},
		{services.Wrap(services.ErrSerialization, "writeback", "build chunk", "", nil), "serialization"},
		{fmt.Errorf("plain"), "error"},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
