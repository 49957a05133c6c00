package fat12

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
)

// Fs is a read only afero.Fs view of the root directory of a Volume.
// Names are given as "NAME.EXT" and converted by ShortName.
type Fs struct {
	volume *Volume
}

// NewFs wraps an opened volume. Closing the volume invalidates the Fs.
func NewFs(volume *Volume) *Fs {
	return &Fs{volume: volume}
}

// NewIOFS returns the volume as io/fs.FS.
func NewIOFS(volume *Volume) fs.FS {
	return afero.NewIOFS(NewFs(volume))
}

func (f *Fs) readContent(entry EntryHeader) ([]byte, error) {
	// Empty files need not have any cluster.
	if entry.FileSize == 0 {
		return []byte{}, nil
	}
	return f.volume.readContent(entry)
}

func (f *Fs) rootEntries() ([]EntryHeader, error) {
	if err := f.volume.checkOpen(); err != nil {
		return nil, err
	}
	return f.volume.root.Entries(), nil
}

// cleanPath returns the path relative to the root, "" for the root itself.
func cleanPath(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

func (f *Fs) Open(name string) (afero.File, error) {
	if err := f.volume.checkOpen(); err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	clean := cleanPath(name)
	if clean == "" {
		return &File{
			fs:          f,
			path:        "/",
			isDirectory: true,
			isRoot:      true,
			stat:        rootFileInfo{},
		}, nil
	}

	// Only the root directory is searched.
	if strings.Contains(clean, "/") {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}

	shortName, err := ShortName(clean)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}

	entry, ok := f.volume.Find(shortName)
	if !ok || !entry.IsRegular() {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}

	return &File{
		fs:          f,
		path:        clean,
		isDirectory: entry.IsDir(),
		entry:       entry,
		stat:        entry.FileInfo(),
	}, nil
}

func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrReadOnly}
	}
	return f.Open(name)
}

func (f *Fs) Stat(name string) (os.FileInfo, error) {
	file, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Stat()
}

func (f *Fs) Name() string {
	return "fat12"
}

func (f *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "remove", Path: path, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (f *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: checkpoint.From(ErrReadOnly)}
}
