package fat12

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
	ErrReadOnly = fmt.Errorf("read-only file system: %w", syscall.EROFS)
)

// fileSource provides all methods needed from a volume for File.
// It mainly exists to be able to mock the volume in tests.
// Generated mock using mockgen:
//
//	mockgen -source=file.go -destination=file_mock_test.go -package fat12
type fileSource interface {
	readContent(entry EntryHeader) ([]byte, error)
	rootEntries() ([]EntryHeader, error)
}

// File is a read only afero.File of the root directory or of a file inside of it.
type File struct {
	fs   fileSource
	path string

	isDirectory bool
	isRoot      bool

	entry  EntryHeader
	stat   os.FileInfo
	offset int64

	// content is loaded on the first read.
	content []byte
}

func (f *File) Close() error {
	if f.fs == nil {
		return checkpoint.From(afero.ErrFileClosed)
	}

	f.fs = nil
	f.content = nil
	f.offset = 0
	return nil
}

// load reads the whole file content once.
func (f *File) load() error {
	if f.content != nil {
		return nil
	}

	content, err := f.fs.readContent(f.entry)
	if err != nil {
		return err
	}
	f.content = content
	return nil
}

func (f *File) checkReadable() error {
	if f.fs == nil {
		return afero.ErrFileClosed
	}
	if f.isDirectory {
		return syscall.EISDIR
	}
	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if err := f.checkReadable(); err != nil {
		return 0, checkpoint.Wrap(err, ErrReadFile)
	}

	if len(p) == 0 {
		return 0, nil
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.stat.Size() <= f.offset {
		return 0, io.EOF
	}

	if err := f.load(); err != nil {
		return 0, err
	}

	n = copy(p, f.content[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if err := f.checkReadable(); err != nil {
		return 0, checkpoint.Wrap(err, ErrReadFile)
	}

	if off < 0 {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, ErrReadFile)
	}

	// Reading over the end makes no sense.
	if f.stat.Size() <= off {
		return 0, io.EOF
	}

	if err := f.load(); err != nil {
		return 0, err
	}

	n = copy(p, f.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.stat.Size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, checkpoint.From(ErrReadOnly)
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, checkpoint.From(ErrReadOnly)
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return checkpoint.From(ErrReadOnly)
}

// Sync has nothing to do as nothing is ever written.
func (f *File) Sync() error {
	return nil
}

func (f *File) Name() string {
	return f.path
}

// Readdir reads the contents of the root directory.
// May return syscall.ENOTDIR if the current File is no directory and
// errors.ErrUnsupported for any directory besides the root.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.fs == nil {
		return nil, checkpoint.Wrap(afero.ErrFileClosed, ErrReadDir)
	}
	if !f.isDirectory {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}
	if !f.isRoot {
		return nil, checkpoint.Wrap(errors.ErrUnsupported, ErrReadDir)
	}

	content, err := f.fs.rootEntries()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	if f.offset > int64(len(content)) {
		f.offset = int64(len(content))
	}
	content = content[f.offset:]

	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if count < len(content) {
			content = content[:count]
		}
	}
	f.offset += int64(len(content))

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.stat, nil
}
