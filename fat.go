package fat12

import (
	"fmt"

	"github.com/aligator/fat12/checkpoint"
)

// fatEntry is one 12 bit link of the allocation table.
type fatEntry uint16

const (
	// firstDataCluster is the cluster mapped to the start of the data region.
	firstDataCluster fatEntry = 2

	reservedMin fatEntry = 0xFF0
	badCluster  fatEntry = 0xFF7
	// endOfChain is the smallest value of the end-of-chain range 0xFF8-0xFFF.
	endOfChain fatEntry = 0xFF8

	entryMask = 0xFFF
)

func (e fatEntry) Value() uint16 {
	return uint16(e) & entryMask
}

func (e fatEntry) IsFree() bool {
	return e.Value() == 0
}

// IsReserved reports values of the range 0xFF0-0xFF6.
func (e fatEntry) IsReserved() bool {
	return e.Value() >= uint16(reservedMin) && e.Value() < uint16(badCluster)
}

func (e fatEntry) IsBad() bool {
	return e.Value() == uint16(badCluster)
}

func (e fatEntry) IsEOF() bool {
	return e.Value() >= uint16(endOfChain)
}

// ReadAsNextCluster reports whether a chain walk continues with this value.
// Reserved and bad values are followed like any other link.
func (e fatEntry) ReadAsNextCluster() bool {
	return !e.IsEOF()
}

func (e fatEntry) String() string {
	switch {
	case e.IsEOF():
		return fmt.Sprintf("0x%03X (end of chain)", e.Value())
	case e.IsBad():
		return fmt.Sprintf("0x%03X (bad cluster)", e.Value())
	case e.IsReserved():
		return fmt.Sprintf("0x%03X (reserved)", e.Value())
	case e.IsFree():
		return "0x000 (free)"
	}
	return fmt.Sprintf("0x%03X", e.Value())
}

// Table is one in-memory copy of the allocation table.
// Entry n occupies the bits 12*n to 12*n+11.
type Table []byte

// Len returns how many complete entries fit into the table.
func (t Table) Len() int {
	return len(t) * 2 / 3
}

// Entry decodes the link stored for cluster.
func (t Table) Entry(cluster uint16) (fatEntry, error) {
	offset := int(cluster) * 3 / 2
	if offset+1 >= len(t) {
		return 0, fmt.Errorf("%w: FAT entry %d outside of a %d byte table", ErrClusterOutOfRange, cluster, len(t))
	}

	word := uint16(t[offset]) | uint16(t[offset+1])<<8
	if cluster%2 == 0 {
		return fatEntry(word & entryMask), nil
	}
	return fatEntry(word >> 4), nil
}

// loadFAT reads the first FAT copy. Further copies are never consulted.
func loadFAT(reader sectorReader, geometry Geometry) (Table, error) {
	data, err := reader.ReadSectors(uint32(geometry.ReservedSectors), uint32(geometry.SectorsPerFAT))
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadFAT)
	}
	return Table(data), nil
}
