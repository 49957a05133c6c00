// Package fat12test builds synthetic FAT12 volume images for tests and samples.
// It writes the on-disk format on its own so it can be used by the tests of
// every package, including the reader itself.
package fat12test

import (
	"encoding/binary"
	"fmt"
)

// EndOfChain is the link value the builder terminates chains with.
const EndOfChain = 0xFFF

// Geometry describes the layout of the image to build.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	RootEntryCount    uint16
	SectorsPerFAT     uint16
	TotalSectors      uint16
	Media             byte
}

// Floppy144 is the geometry of a 1.44 MB 3.5" floppy disk.
func Floppy144() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		FATCount:          2,
		RootEntryCount:    224,
		SectorsPerFAT:     9,
		TotalSectors:      2880,
		Media:             0xF0,
	}
}

// RootDirSectors returns the sectors of the root directory, rounded up.
func (g Geometry) RootDirSectors() uint32 {
	size := uint32(g.RootEntryCount) * 32
	return (size + uint32(g.BytesPerSector) - 1) / uint32(g.BytesPerSector)
}

// RootDirLBA returns the first sector of the root directory.
func (g Geometry) RootDirLBA() uint32 {
	return uint32(g.ReservedSectors) + uint32(g.FATCount)*uint32(g.SectorsPerFAT)
}

// DataRegionLBA returns the sector cluster 2 starts at.
func (g Geometry) DataRegionLBA() uint32 {
	return g.RootDirLBA() + g.RootDirSectors()
}

// ClusterSize returns the bytes per cluster.
func (g Geometry) ClusterSize() int {
	return int(g.BytesPerSector) * int(g.SectorsPerCluster)
}

// File is one root directory entry to write.
type File struct {
	// Name is the raw 11 byte name, shorter names are padded with spaces.
	Name      string
	Content   []byte
	Attribute byte
	// Clusters is the chain to store the content in. If empty, the next free
	// clusters are used. At least one cluster is always allocated.
	Clusters  []uint16
	WriteDate uint16
	WriteTime uint16
	// Size overrides the size stored in the entry if not nil.
	Size *uint32
}

// Builder collects the content of an image.
type Builder struct {
	geometry Geometry
	label    string
	files    []File
	links    map[uint16]uint16
	next     uint16
}

func New(geometry Geometry) *Builder {
	return &Builder{
		geometry: geometry,
		label:    "NO NAME",
		links:    map[uint16]uint16{},
		next:     2,
	}
}

// Label sets the volume label of the boot sector.
func (b *Builder) Label(label string) *Builder {
	b.label = label
	return b
}

// Add adds a file to the root directory.
func (b *Builder) Add(file File) *Builder {
	b.files = append(b.files, file)
	return b
}

// AddFile adds a regular file whose content is stored in the next free clusters.
func (b *Builder) AddFile(name string, content []byte) *Builder {
	return b.Add(File{Name: name, Content: content, Attribute: 0x20})
}

// SetFAT stores value for cluster after all chains have been written.
func (b *Builder) SetFAT(cluster, value uint16) *Builder {
	b.links[cluster] = value
	return b
}

// PutFAT12 stores the 12 bit value for cluster in fat.
func PutFAT12(fat []byte, cluster uint16, value uint16) {
	offset := int(cluster) * 3 / 2
	if cluster%2 == 0 {
		fat[offset] = byte(value)
		fat[offset+1] = fat[offset+1]&0xF0 | byte(value>>8)&0x0F
		return
	}
	fat[offset] = fat[offset]&0x0F | byte(value<<4)
	fat[offset+1] = byte(value >> 4)
}

// Build renders the image.
func (b *Builder) Build() ([]byte, error) {
	g := b.geometry
	if g.BytesPerSector == 0 || g.SectorsPerCluster == 0 {
		return nil, fmt.Errorf("geometry needs bytes per sector and sectors per cluster")
	}
	if len(b.files) > int(g.RootEntryCount) {
		return nil, fmt.Errorf("%d files do not fit into %d root entries", len(b.files), g.RootEntryCount)
	}

	sectorSize := int(g.BytesPerSector)
	image := make([]byte, int(g.TotalSectors)*sectorSize)
	if len(image) < int(g.DataRegionLBA())*sectorSize {
		return nil, fmt.Errorf("%d sectors are too few for the metadata", g.TotalSectors)
	}

	b.writeBootSector(image)

	fat := make([]byte, int(g.SectorsPerFAT)*sectorSize)
	if len(fat) >= 3 {
		PutFAT12(fat, 0, 0xF00|uint16(g.Media))
		PutFAT12(fat, 1, EndOfChain)
	}

	rootDir := image[int(g.RootDirLBA())*sectorSize:]
	for i, file := range b.files {
		chain, err := b.allocate(file)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", file.Name, err)
		}

		for j, cluster := range chain {
			if int(cluster)*3/2+1 >= len(fat) {
				return nil, fmt.Errorf("file %q: cluster %d is outside of the FAT", file.Name, cluster)
			}
			link := uint16(EndOfChain)
			if j+1 < len(chain) {
				link = chain[j+1]
			}
			PutFAT12(fat, cluster, link)

			start := (int(g.DataRegionLBA()) + (int(cluster)-2)*int(g.SectorsPerCluster)) * sectorSize
			end := start + g.ClusterSize()
			if end > len(image) {
				return nil, fmt.Errorf("file %q: cluster %d is outside of the image", file.Name, cluster)
			}
			from := j * g.ClusterSize()
			if from < len(file.Content) {
				copy(image[start:end], file.Content[from:])
			}
		}

		writeEntry(rootDir[i*32:(i+1)*32], file, chain[0])
	}

	for cluster, value := range b.links {
		PutFAT12(fat, cluster, value)
	}

	for i := 0; i < int(g.FATCount); i++ {
		copy(image[(int(g.ReservedSectors)+i*int(g.SectorsPerFAT))*sectorSize:], fat)
	}

	return image, nil
}

// MustBuild is like Build but panics on errors.
func (b *Builder) MustBuild() []byte {
	image, err := b.Build()
	if err != nil {
		panic(err)
	}
	return image
}

func (b *Builder) allocate(file File) ([]uint16, error) {
	if len(file.Clusters) > 0 {
		for _, cluster := range file.Clusters {
			if cluster < 2 {
				return nil, fmt.Errorf("cluster %d is reserved", cluster)
			}
		}
		return file.Clusters, nil
	}

	count := (len(file.Content) + b.geometry.ClusterSize() - 1) / b.geometry.ClusterSize()
	if count == 0 {
		count = 1
	}

	chain := make([]uint16, count)
	for i := range chain {
		chain[i] = b.next
		b.next++
	}
	return chain, nil
}

func (b *Builder) writeBootSector(image []byte) {
	g := b.geometry
	copy(image[0:3], []byte{0xEB, 0x3C, 0x90})
	copy(image[3:11], "MSWIN4.1")
	binary.LittleEndian.PutUint16(image[11:13], g.BytesPerSector)
	image[13] = g.SectorsPerCluster
	binary.LittleEndian.PutUint16(image[14:16], g.ReservedSectors)
	image[16] = g.FATCount
	binary.LittleEndian.PutUint16(image[17:19], g.RootEntryCount)
	binary.LittleEndian.PutUint16(image[19:21], g.TotalSectors)
	image[21] = g.Media
	binary.LittleEndian.PutUint16(image[22:24], g.SectorsPerFAT)
	binary.LittleEndian.PutUint16(image[24:26], 18)
	binary.LittleEndian.PutUint16(image[26:28], 2)

	image[38] = 0x29
	binary.LittleEndian.PutUint32(image[39:43], 0x1234ABCD)
	copy(image[43:54], pad(b.label, 11))
	copy(image[54:62], pad("FAT12", 8))

	if len(image) >= 512 {
		image[510] = 0x55
		image[511] = 0xAA
	}
}

func writeEntry(slot []byte, file File, firstCluster uint16) {
	copy(slot[0:11], pad(file.Name, 11))
	slot[11] = file.Attribute
	binary.LittleEndian.PutUint16(slot[22:24], file.WriteTime)
	binary.LittleEndian.PutUint16(slot[24:26], file.WriteDate)
	binary.LittleEndian.PutUint16(slot[26:28], firstCluster)

	size := uint32(len(file.Content))
	if file.Size != nil {
		size = *file.Size
	}
	binary.LittleEndian.PutUint32(slot[28:32], size)
}

func pad(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}
