package fat12

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aligator/fat12/checkpoint"
	"go.uber.org/zap"
)

// These errors mark the stage of the reading pipeline which failed.
var (
	ErrReadSectors       = errors.New("could not read sectors")
	ErrReadBootSector    = errors.New("could not read the boot sector")
	ErrInvalidGeometry   = errors.New("invalid volume geometry")
	ErrReadFAT           = errors.New("could not read the FAT")
	ErrReadRootDir       = errors.New("could not read the root directory")
	ErrReadFile          = errors.New("could not read file completely")
	ErrClusterOutOfRange = errors.New("cluster out of range")
	ErrChainLoop         = errors.New("cluster chain does not terminate")
	ErrClosed            = errors.New("volume is closed")

	// ErrNotFound is returned by Extract if no entry has the requested name.
	// It matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("file not found: %w", fs.ErrNotExist)
)

type options struct {
	log    *zap.SugaredLogger
	strict bool
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used for the pipeline stages.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithStrictChecks enables the boot sector validation of Geometry.Validate
// and checks the boot signature. Without it every volume the plain reading
// pipeline can make sense of is accepted.
func WithStrictChecks() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Volume is one reading session of a FAT12 image.
// It owns the loaded FAT and root directory until Close is called.
// A Volume is not safe for concurrent use.
type Volume struct {
	reader sectorReader
	boot   BootSector
	fat    Table
	root   *RootDirectory
	log    *zap.SugaredLogger
}

// New parses the boot sector of the image and loads the FAT and the root directory.
func New(reader io.ReadSeeker, opts ...Option) (*Volume, error) {
	o := options{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}

	boot, err := readBootSector(reader)
	if err != nil {
		return nil, err
	}
	o.log.Debugw("parsed boot sector",
		"oem", boot.OEM(),
		"bytesPerSector", boot.BytesPerSector,
		"sectorsPerCluster", boot.SectorsPerCluster,
		"reservedSectors", boot.ReservedSectors,
		"fatCount", boot.FATCount,
		"rootEntryCount", boot.RootEntryCount,
		"sectorsPerFat", boot.SectorsPerFAT,
	)

	if err := boot.Geometry.validateMinimal(); err != nil {
		return nil, err
	}

	accessor := newSectorAccessor(reader, boot.BytesPerSector)
	if o.strict {
		if err := validateStrict(accessor, boot); err != nil {
			return nil, err
		}
	}

	return open(accessor, boot, o)
}

// open loads the FAT and the root directory through reader.
func open(reader sectorReader, boot BootSector, o options) (*Volume, error) {
	fat, err := loadFAT(reader, boot.Geometry)
	if err != nil {
		return nil, err
	}
	o.log.Debugw("loaded FAT", "bytes", len(fat), "entries", fat.Len())

	root, err := loadRootDirectory(reader, boot.Geometry)
	if err != nil {
		return nil, err
	}
	o.log.Debugw("loaded root directory", "lba", root.LBA, "sectors", root.SectorCount, "dataRegionLba", root.DataRegionLBA)

	return &Volume{
		reader: reader,
		boot:   boot,
		fat:    fat,
		root:   root,
		log:    o.log,
	}, nil
}

func readBootSector(reader io.ReadSeeker) (BootSector, error) {
	buffer := make([]byte, bootSectorSize)
	if err := readFullAt(reader, 0, buffer); err != nil {
		return BootSector{}, checkpoint.Wrap(err, ErrReadBootSector)
	}

	boot, err := parseBootSector(buffer)
	if err != nil {
		return BootSector{}, checkpoint.Wrap(err, ErrReadBootSector)
	}
	return boot, nil
}

func (v *Volume) checkOpen() error {
	if v.fat == nil || v.root == nil {
		return checkpoint.From(ErrClosed)
	}
	return nil
}

func (v *Volume) logger() *zap.SugaredLogger {
	if v.log == nil {
		return zap.NewNop().Sugar()
	}
	return v.log
}

// BootSector returns the parsed boot sector.
func (v *Volume) BootSector() BootSector {
	return v.boot
}

// Geometry returns the boot sector fields the layout of the volume is derived from.
func (v *Volume) Geometry() Geometry {
	return v.boot.Geometry
}

// Label returns the volume label of the boot sector.
func (v *Volume) Label() string {
	return v.boot.Label()
}

// FAT returns the loaded allocation table. It must not be modified.
func (v *Volume) FAT() Table {
	return v.fat
}

// RootDirectory returns the loaded root directory or nil after Close.
func (v *Volume) RootDirectory() *RootDirectory {
	return v.root
}

// Find looks up the raw 11 byte 8.3 name in the root directory.
// A missing name is reported by ok == false and is no error.
func (v *Volume) Find(name [11]byte) (entry EntryHeader, ok bool) {
	if v.root == nil {
		return EntryHeader{}, false
	}
	return v.root.Find(name)
}

// Extract returns exactly the content of the file with the raw 11 byte name.
// It returns ErrNotFound if there is no such entry.
func (v *Volume) Extract(name [11]byte) ([]byte, error) {
	if err := v.checkOpen(); err != nil {
		return nil, err
	}

	entry, ok := v.Find(name)
	if !ok {
		return nil, checkpoint.Wrap(fmt.Errorf("%q", name[:]), ErrNotFound)
	}

	return v.readContent(entry)
}

// readContent reads the cluster chain of entry and cuts it to the file size.
func (v *Volume) readContent(entry EntryHeader) ([]byte, error) {
	content, err := v.ReadFile(entry)
	if err != nil {
		return nil, err
	}

	if int64(entry.FileSize) > int64(len(content)) {
		return nil, checkpoint.Wrap(fmt.Errorf("chain holds %d bytes, entry claims %d", len(content), entry.FileSize), ErrReadFile)
	}
	return content[:entry.FileSize], nil
}

// Close releases the FAT and the root directory.
// The image itself is owned by the caller and stays open.
func (v *Volume) Close() error {
	v.fat = nil
	v.root = nil
	v.reader = nil
	return nil
}
