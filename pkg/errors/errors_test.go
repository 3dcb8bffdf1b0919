package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeForSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, ExitInput},
		{ErrMalformedInput, ExitInput},
		{ErrCorruptIndex, ExitIndex},
		{ErrVersionSkew, ExitIndex},
		{ErrNotFound, ExitIndex},
		{ErrQuerySyntax, ExitQuery},
		{ErrTimeout, ExitTimeout},
		{errors.New("unclassified"), ExitInternal},
	}
	for _, c := range cases {
		if got := ExitCodeFor(c.err); got != c.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestExitCodeForWrappedAppError(t *testing.T) {
	base := New(ErrQuerySyntax, ExitQuery, "unmatched parenthesis")
	wrapped := fmt.Errorf("search_cli: %w", base)
	// errors.As finds the AppError through %w wrapping, so the wrapped
	// error reports the AppError's own exit code.
	if got := ExitCodeFor(base); got != ExitQuery {
		t.Errorf("ExitCodeFor(AppError) = %d, want %d", got, ExitQuery)
	}
	if got := ExitCodeFor(wrapped); got != ExitQuery {
		t.Errorf("ExitCodeFor(wrapped AppError) = %d, want %d", got, ExitQuery)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	base := New(ErrCorruptIndex, ExitIndex, "bad magic number")
	if !errors.Is(base, ErrCorruptIndex) {
		t.Error("AppError should unwrap to its sentinel")
	}
}
