package checkpoint

import (
	"errors"
	"io"
	"strings"
	"testing"
)

var (
	errStage = errors.New("stage failed")
	errCause = errors.New("disk on fire")
)

type pathError struct{ path string }

func (p *pathError) Error() string { return "bad path " + p.path }

func TestFrom(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
		wantRaw bool
	}{
		{name: "nil stays nil", err: nil, wantNil: true},
		{name: "io.EOF is returned directly", err: io.EOF, wantRaw: true},
		{name: "io.ErrUnexpectedEOF is returned directly", err: io.ErrUnexpectedEOF, wantRaw: true},
		{name: "any other error gets a checkpoint", err: errCause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("From() = %v, want nil", got)
				}
				return
			}
			if tt.wantRaw {
				if got != tt.err {
					t.Errorf("From() = %v, want %v unchanged", got, tt.err)
				}
				return
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("From() = %v, does not match %v", got, tt.err)
			}
			if !strings.Contains(got.Error(), "checkpoint_test.go") {
				t.Errorf("From() = %q, missing caller position", got.Error())
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		prev    error
		err     error
		wantNil bool
		wantIs  []error
		wantNot []error
	}{
		{
			name:    "nil prev yields nil",
			prev:    nil,
			err:     errStage,
			wantNil: true,
		},
		{
			name:   "both the stage and the cause match",
			prev:   errCause,
			err:    errStage,
			wantIs: []error{errStage, errCause},
		},
		{
			name:   "nested checkpoints keep every layer",
			prev:   Wrap(io.ErrUnexpectedEOF, errCause),
			err:    errStage,
			wantIs: []error{errStage, errCause, io.ErrUnexpectedEOF},
		},
		{
			name:    "nil description only matches the cause",
			prev:    errCause,
			err:     nil,
			wantIs:  []error{errCause},
			wantNot: []error{errStage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.prev, tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			for _, want := range tt.wantIs {
				if !errors.Is(got, want) {
					t.Errorf("Wrap() = %v, errors.Is(%v) = false", got, want)
				}
			}
			for _, notWant := range tt.wantNot {
				if errors.Is(got, notWant) {
					t.Errorf("Wrap() = %v, errors.Is(%v) = true", got, notWant)
				}
			}
		})
	}
}

func TestWrapEOF(t *testing.T) {
	if got := Wrap(io.EOF, errStage); got != io.EOF {
		t.Errorf("Wrap(io.EOF) = %v, want io.EOF", got)
	}
}

func TestWrapAs(t *testing.T) {
	err := Wrap(errCause, &pathError{path: "/x"})

	var pe *pathError
	if !errors.As(err, &pe) {
		t.Fatalf("errors.As() = false for %v", err)
	}
	if pe.path != "/x" {
		t.Errorf("pathError.path = %q, want /x", pe.path)
	}
}

func TestCheckpoint_Error(t *testing.T) {
	err := Wrap(errCause, errStage)
	msg := err.Error()
	if !strings.HasPrefix(msg, "stage failed (checkpoint_test.go:") {
		t.Errorf("Error() = %q, want stage and position first", msg)
	}
	if !strings.HasSuffix(msg, ": disk on fire") {
		t.Errorf("Error() = %q, want cause last", msg)
	}
}
