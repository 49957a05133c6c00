package fat12

import (
	"bytes"

	"github.com/aligator/fat12/checkpoint"
)

// RootDirectory is the fixed size root directory region of a volume.
type RootDirectory struct {
	data       []byte
	entryCount uint16

	// LBA is the first sector of the root directory.
	LBA uint32
	// SectorCount is the number of sectors the region occupies.
	SectorCount uint32
	// DataRegionLBA is the sector cluster 2 starts at.
	DataRegionLBA uint32
}

// rootDirectoryLayout returns the first sector and the sector count of the root directory.
// The last sector may be used partially, so the count is rounded up.
func rootDirectoryLayout(geometry Geometry) (lba uint32, sectors uint32) {
	lba = uint32(geometry.ReservedSectors) + uint32(geometry.FATCount)*uint32(geometry.SectorsPerFAT)

	size := uint32(geometry.RootEntryCount) * entrySize
	sectorSize := uint32(geometry.BytesPerSector)
	sectors = size / sectorSize
	if size%sectorSize > 0 {
		sectors++
	}

	return lba, sectors
}

func loadRootDirectory(reader sectorReader, geometry Geometry) (*RootDirectory, error) {
	lba, sectors := rootDirectoryLayout(geometry)

	data, err := reader.ReadSectors(lba, sectors)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadRootDir)
	}

	return &RootDirectory{
		data:          data,
		entryCount:    geometry.RootEntryCount,
		LBA:           lba,
		SectorCount:   sectors,
		DataRegionLBA: lba + sectors,
	}, nil
}

// Len returns the number of entry slots, used or not.
func (d *RootDirectory) Len() int {
	return int(d.entryCount)
}

// Entry decodes slot i.
func (d *RootDirectory) Entry(i int) EntryHeader {
	return parseEntryHeader(d.data[i*entrySize : (i+1)*entrySize])
}

// Entries returns all slots which hold a live file or directory, in stored order.
// Scanning stops at the first never used slot.
func (d *RootDirectory) Entries() []EntryHeader {
	var entries []EntryHeader
	for i := 0; i < d.Len(); i++ {
		entry := d.Entry(i)
		if entry.IsFree() {
			break
		}
		if entry.IsRegular() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Find returns the first slot whose raw 11 byte name equals name.
// The comparison is exact, unused and deleted slots are compared like all others.
func (d *RootDirectory) Find(name [11]byte) (EntryHeader, bool) {
	for i := 0; i < d.Len(); i++ {
		slot := d.data[i*entrySize : i*entrySize+len(name)]
		if bytes.Equal(slot, name[:]) {
			return d.Entry(i), true
		}
	}
	return EntryHeader{}, false
}
