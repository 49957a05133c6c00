package fat12

import (
	"fmt"

	"github.com/aligator/fat12/checkpoint"
)

// maxFAT12Clusters is the exclusive upper bound of data clusters of a FAT12 volume.
const maxFAT12Clusters = 4085

// validateMinimal rejects only geometries no offset can be derived from.
func (g Geometry) validateMinimal() error {
	if g.BytesPerSector == 0 {
		return checkpoint.From(fmt.Errorf("%w: 0 bytes per sector", ErrInvalidGeometry))
	}
	if g.SectorsPerCluster == 0 {
		return checkpoint.From(fmt.Errorf("%w: 0 sectors per cluster", ErrInvalidGeometry))
	}
	return nil
}

// Validate checks the geometry against the constraints of the FAT specification.
func (g Geometry) Validate() error {
	if err := g.validateMinimal(); err != nil {
		return err
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch g.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.From(fmt.Errorf("%w: invalid sector size %d", ErrInvalidGeometry, g.BytesPerSector))
	}

	// Sectors per cluster has to be a power of two.
	// Also the whole cluster size should not be more than 32K.
	if g.SectorsPerCluster&(g.SectorsPerCluster-1) != 0 || g.ClusterSize() > 32*1024 {
		return checkpoint.From(fmt.Errorf("%w: invalid sectors per cluster %d", ErrInvalidGeometry, g.SectorsPerCluster))
	}

	// The boot sector itself is reserved.
	if g.ReservedSectors == 0 {
		return checkpoint.From(fmt.Errorf("%w: no reserved sectors", ErrInvalidGeometry))
	}

	if g.FATCount == 0 {
		return checkpoint.From(fmt.Errorf("%w: no FAT", ErrInvalidGeometry))
	}

	if g.SectorsPerFAT == 0 {
		return checkpoint.From(fmt.Errorf("%w: empty FAT", ErrInvalidGeometry))
	}

	if g.RootEntryCount == 0 {
		return checkpoint.From(fmt.Errorf("%w: no root directory entries", ErrInvalidGeometry))
	}

	return nil
}

// validMedia reports whether b is one of the media descriptors F0 and F8-FF.
func validMedia(b byte) bool {
	return b == 0xF0 || b >= 0xF8
}

// clusterCount returns the number of data clusters of the volume.
func (bs BootSector) clusterCount() uint32 {
	_, rootSectors := rootDirectoryLayout(bs.Geometry)
	metaSectors := uint32(bs.ReservedSectors) + uint32(bs.FATCount)*uint32(bs.SectorsPerFAT) + rootSectors

	total := bs.TotalSectors()
	if total <= metaSectors {
		return 0
	}
	return (total - metaSectors) / uint32(bs.SectorsPerCluster)
}

// validateStrict runs all checks of WithStrictChecks.
func validateStrict(reader sectorReader, bs BootSector) error {
	// Check for valid jump instructions.
	if !(bs.JumpBoot[0] == 0xEB && bs.JumpBoot[2] == 0x90) && bs.JumpBoot[0] != 0xE9 {
		return checkpoint.From(fmt.Errorf("%w: no valid jump instructions at the beginning", ErrInvalidGeometry))
	}

	if err := bs.Geometry.Validate(); err != nil {
		return err
	}

	if !validMedia(bs.Media) {
		return checkpoint.From(fmt.Errorf("%w: invalid media value 0x%02X", ErrInvalidGeometry, bs.Media))
	}

	if bs.TotalSectors() == 0 {
		return checkpoint.From(fmt.Errorf("%w: no sectors", ErrInvalidGeometry))
	}

	if count := bs.clusterCount(); count >= maxFAT12Clusters {
		return checkpoint.From(fmt.Errorf("%w: %d clusters is too much for FAT12", ErrInvalidGeometry, count))
	}

	sector, err := reader.ReadSectors(0, 1)
	if err != nil {
		return checkpoint.Wrap(err, ErrReadBootSector)
	}
	if sector[510] != 0x55 || sector[511] != 0xAA {
		return checkpoint.From(fmt.Errorf("%w: missing boot signature 0x55AA", ErrInvalidGeometry))
	}

	return nil
}
