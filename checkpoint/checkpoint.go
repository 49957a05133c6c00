// Package checkpoint decorates errors with the position of the code that
// passed them on, which gives a short trail through the reading pipeline.
// Both the decorating error and the wrapped cause stay reachable through
// errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
)

// From marks err with the caller position.
// It returns nil if err is nil.
func From(err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(nil, err, 2)
}

// Wrap marks prev with the caller position and describes it by err.
// Mostly err is one of the predefined sentinel errors of a package:
//
//	var ErrReadFAT = errors.New("could not read the FAT")
//
//	func loadFAT() error {
//		_, err := readSectors()
//		return checkpoint.Wrap(err, ErrReadFAT)
//	}
//
// Callers may then test for ErrReadFAT and for the error returned by
// readSectors alike. Wrap returns nil if prev is nil.
func Wrap(prev, err error) error {
	if prev == nil {
		return nil
	}

	if prev == io.EOF {
		return io.EOF
	}

	return newCheckpoint(err, prev, 2)
}

func newCheckpoint(err, prev error, skip int) *checkpoint {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "unknown"
	}

	return &checkpoint{
		err:  err,
		prev: prev,
		file: filepath.Base(file),
		line: line,
	}
}

type checkpoint struct {
	err  error
	prev error

	file string
	line int
}

func (e *checkpoint) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%v (%s:%d)", e.prev, e.file, e.line)
	}
	return fmt.Sprintf("%v (%s:%d): %v", e.err, e.file, e.line, e.prev)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
