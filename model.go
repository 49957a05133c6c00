// File model contains the structures of the FAT12 on-disk format and their decoding.
// Every field is decoded by its byte offset so nothing depends on Go struct layout.

package fat12

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// bootSectorSize is the length of the BIOS parameter block including the extended boot record.
	bootSectorSize = 62
	// entrySize is the size of one directory entry.
	entrySize = 32
)

// Directory entry attributes.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Special values of the first name byte.
const (
	entryFree    = 0x00
	entryDeleted = 0xE5
)

// Geometry holds the boot sector fields all offsets of the volume are derived from.
type Geometry struct {
	BytesPerSector    uint16 `json:"bytesPerSector" yaml:"bytesPerSector"`
	SectorsPerCluster uint8  `json:"sectorsPerCluster" yaml:"sectorsPerCluster"`
	ReservedSectors   uint16 `json:"reservedSectors" yaml:"reservedSectors"`
	FATCount          uint8  `json:"fatCount" yaml:"fatCount"`
	RootEntryCount    uint16 `json:"rootEntryCount" yaml:"rootEntryCount"`
	SectorsPerFAT     uint16 `json:"sectorsPerFat" yaml:"sectorsPerFat"`
}

// ClusterSize returns the number of bytes in one cluster.
func (g Geometry) ClusterSize() int {
	return int(g.SectorsPerCluster) * int(g.BytesPerSector)
}

// BootSector is the decoded BIOS parameter block with the FAT12/16 extended boot record.
type BootSector struct {
	JumpBoot [3]byte `json:"-" yaml:"-"`
	OEMName  [8]byte `json:"-" yaml:"-"`

	Geometry `yaml:",inline"`

	TotalSectors16  uint16 `json:"totalSectors16" yaml:"totalSectors16"`
	Media           byte   `json:"media" yaml:"media"`
	SectorsPerTrack uint16 `json:"sectorsPerTrack" yaml:"sectorsPerTrack"`
	NumberOfHeads   uint16 `json:"numberOfHeads" yaml:"numberOfHeads"`
	HiddenSectors   uint32 `json:"hiddenSectors" yaml:"hiddenSectors"`
	TotalSectors32  uint32 `json:"totalSectors32" yaml:"totalSectors32"`

	DriveNumber    byte     `json:"driveNumber" yaml:"driveNumber"`
	Reserved1      byte     `json:"-" yaml:"-"`
	BootSignature  byte     `json:"bootSignature" yaml:"bootSignature"`
	VolumeID       uint32   `json:"volumeId" yaml:"volumeId"`
	VolumeLabel    [11]byte `json:"-" yaml:"-"`
	FileSystemType [8]byte  `json:"-" yaml:"-"`
}

// parseBootSector decodes the first bootSectorSize bytes of b.
// No field is validated here.
func parseBootSector(b []byte) (BootSector, error) {
	if len(b) < bootSectorSize {
		return BootSector{}, fmt.Errorf("boot sector needs %d bytes, got %d", bootSectorSize, len(b))
	}

	var bs BootSector
	copy(bs.JumpBoot[:], b[0:3])
	copy(bs.OEMName[:], b[3:11])
	bs.BytesPerSector = binary.LittleEndian.Uint16(b[11:13])
	bs.SectorsPerCluster = b[13]
	bs.ReservedSectors = binary.LittleEndian.Uint16(b[14:16])
	bs.FATCount = b[16]
	bs.RootEntryCount = binary.LittleEndian.Uint16(b[17:19])
	bs.TotalSectors16 = binary.LittleEndian.Uint16(b[19:21])
	bs.Media = b[21]
	bs.SectorsPerFAT = binary.LittleEndian.Uint16(b[22:24])
	bs.SectorsPerTrack = binary.LittleEndian.Uint16(b[24:26])
	bs.NumberOfHeads = binary.LittleEndian.Uint16(b[26:28])
	bs.HiddenSectors = binary.LittleEndian.Uint32(b[28:32])
	bs.TotalSectors32 = binary.LittleEndian.Uint32(b[32:36])

	bs.DriveNumber = b[36]
	bs.Reserved1 = b[37]
	bs.BootSignature = b[38]
	bs.VolumeID = binary.LittleEndian.Uint32(b[39:43])
	copy(bs.VolumeLabel[:], b[43:54])
	copy(bs.FileSystemType[:], b[54:62])

	return bs, nil
}

// TotalSectors returns the 16 bit sector count, or the 32 bit one if the former is 0.
func (bs BootSector) TotalSectors() uint32 {
	if bs.TotalSectors16 != 0 {
		return uint32(bs.TotalSectors16)
	}
	return bs.TotalSectors32
}

// Label returns the volume label of the extended boot record without padding.
func (bs BootSector) Label() string {
	return strings.TrimRight(string(bs.VolumeLabel[:]), " \x00")
}

// OEM returns the OEM identifier without padding.
func (bs BootSector) OEM() string {
	return strings.TrimRight(string(bs.OEMName[:]), " \x00")
}

// FSTypeString returns the informational file system type string, e.g. "FAT12".
func (bs BootSector) FSTypeString() string {
	return strings.TrimRight(string(bs.FileSystemType[:]), " \x00")
}

// EntryHeader is one 32 byte directory entry.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

func parseEntryHeader(b []byte) EntryHeader {
	var e EntryHeader
	copy(e.Name[:], b[0:11])
	e.Attribute = b[11]
	e.NTReserved = b[12]
	e.CreateTimeTenth = b[13]
	e.CreateTime = binary.LittleEndian.Uint16(b[14:16])
	e.CreateDate = binary.LittleEndian.Uint16(b[16:18])
	e.LastAccessDate = binary.LittleEndian.Uint16(b[18:20])
	e.FirstClusterHI = binary.LittleEndian.Uint16(b[20:22])
	e.WriteTime = binary.LittleEndian.Uint16(b[22:24])
	e.WriteDate = binary.LittleEndian.Uint16(b[24:26])
	e.FirstClusterLO = binary.LittleEndian.Uint16(b[26:28])
	e.FileSize = binary.LittleEndian.Uint32(b[28:32])
	return e
}

// FirstCluster returns the first cluster of the entry.
// FAT12 only uses the low word, FirstClusterHI is ignored.
func (e EntryHeader) FirstCluster() uint16 {
	return e.FirstClusterLO
}

// IsFree reports whether this slot and all following ones are unused.
func (e EntryHeader) IsFree() bool {
	return e.Name[0] == entryFree
}

// IsDeleted reports whether the entry was deleted.
func (e EntryHeader) IsDeleted() bool {
	return e.Name[0] == entryDeleted
}

func (e EntryHeader) IsLongName() bool {
	return e.Attribute&AttrLongName == AttrLongName
}

func (e EntryHeader) IsVolumeLabel() bool {
	return !e.IsLongName() && e.Attribute&AttrVolumeID == AttrVolumeID
}

func (e EntryHeader) IsDir() bool {
	return !e.IsLongName() && e.Attribute&AttrDirectory == AttrDirectory
}

// IsRegular reports whether the slot holds a live file or directory
// which should show up in a listing.
func (e EntryHeader) IsRegular() bool {
	return !e.IsFree() && !e.IsDeleted() && !e.IsLongName() && !e.IsVolumeLabel()
}
