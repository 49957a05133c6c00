// Package render writes volume contents and metadata for humans and scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aligator/fat12"
	"gopkg.in/yaml.v3"
)

const hexDigits = "0123456789abcdef"

// Escape writes printable ASCII characters as they are and every other
// byte as two lower case hex digits in angle brackets, e.g. "<0a>".
func Escape(w io.Writer, data []byte) error {
	escaped := make([]byte, 0, len(data))
	for _, b := range data {
		if b >= 0x20 && b <= 0x7E {
			escaped = append(escaped, b)
			continue
		}
		escaped = append(escaped, '<', hexDigits[b>>4], hexDigits[b&0x0F], '>')
	}
	_, err := w.Write(escaped)
	return err
}

// Entry is one line of a directory listing.
type Entry struct {
	Name         string    `json:"name" yaml:"name"`
	Attributes   string    `json:"attributes" yaml:"attributes"`
	Size         int64     `json:"size" yaml:"size"`
	FirstCluster uint16    `json:"firstCluster" yaml:"firstCluster"`
	Modified     time.Time `json:"modified" yaml:"modified"`
}

// NewEntry converts the os.FileInfo of a file of the volume.
func NewEntry(info os.FileInfo) Entry {
	entry := Entry{
		Name:     info.Name(),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}
	if header, ok := info.Sys().(fat12.EntryHeader); ok {
		entry.Attributes = Attributes(header.Attribute)
		entry.FirstCluster = header.FirstCluster()
	}
	return entry
}

// Attributes returns the attribute byte as a flag string like "-----A".
func Attributes(attribute byte) string {
	flags := []struct {
		mask byte
		char byte
	}{
		{fat12.AttrReadOnly, 'R'},
		{fat12.AttrHidden, 'H'},
		{fat12.AttrSystem, 'S'},
		{fat12.AttrVolumeID, 'V'},
		{fat12.AttrDirectory, 'D'},
		{fat12.AttrArchive, 'A'},
	}

	result := make([]byte, len(flags))
	for i, flag := range flags {
		result[i] = '-'
		if attribute&flag.mask != 0 {
			result[i] = flag.char
		}
	}
	return string(result)
}

// Info summarizes the layout of a volume.
type Info struct {
	Label          string `json:"label" yaml:"label"`
	OEM            string `json:"oem" yaml:"oem"`
	FileSystemType string `json:"fileSystemType" yaml:"fileSystemType"`
	VolumeID       uint32 `json:"volumeId" yaml:"volumeId"`
	Media          byte   `json:"media" yaml:"media"`
	TotalSectors   uint32 `json:"totalSectors" yaml:"totalSectors"`

	fat12.Geometry `yaml:",inline"`

	FATEntries           int    `json:"fatEntries" yaml:"fatEntries"`
	RootDirectoryLBA     uint32 `json:"rootDirectoryLba" yaml:"rootDirectoryLba"`
	RootDirectorySectors uint32 `json:"rootDirectorySectors" yaml:"rootDirectorySectors"`
	DataRegionLBA        uint32 `json:"dataRegionLba" yaml:"dataRegionLba"`
	Files                int    `json:"files" yaml:"files"`
}

// NewInfo collects the Info of an opened volume.
func NewInfo(volume *fat12.Volume) Info {
	boot := volume.BootSector()
	info := Info{
		Label:          boot.Label(),
		OEM:            boot.OEM(),
		FileSystemType: boot.FSTypeString(),
		VolumeID:       boot.VolumeID,
		Media:          boot.Media,
		TotalSectors:   boot.TotalSectors(),
		Geometry:       boot.Geometry,
		FATEntries:     volume.FAT().Len(),
	}

	if root := volume.RootDirectory(); root != nil {
		info.RootDirectoryLBA = root.LBA
		info.RootDirectorySectors = root.SectorCount
		info.DataRegionLBA = root.DataRegionLBA
		info.Files = len(root.Entries())
	}
	return info
}

// Chain is the cluster chain of one file.
type Chain struct {
	Name     string   `json:"name" yaml:"name"`
	Clusters []uint16 `json:"clusters" yaml:"clusters"`
	// Error is set if the chain could not be followed to its end.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Entries writes a directory listing in the given format.
func Entries(w io.Writer, format string, entries []Entry) error {
	if format != FormatText {
		return encode(w, format, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tATTR\tCLUSTER\tMODIFIED")
	for _, entry := range entries {
		modified := "-"
		if !entry.Modified.IsZero() {
			modified = entry.Modified.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", entry.Name, entry.Size, entry.Attributes, entry.FirstCluster, modified)
	}
	return tw.Flush()
}

// VolumeInfo writes the volume summary in the given format.
func VolumeInfo(w io.Writer, format string, info Info) error {
	if format != FormatText {
		return encode(w, format, info)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	lines := []struct {
		name  string
		value interface{}
	}{
		{"Label", info.Label},
		{"OEM", info.OEM},
		{"File system type", info.FileSystemType},
		{"Volume ID", fmt.Sprintf("%08X", info.VolumeID)},
		{"Media", fmt.Sprintf("0x%02X", info.Media)},
		{"Total sectors", info.TotalSectors},
		{"Bytes per sector", info.BytesPerSector},
		{"Sectors per cluster", info.SectorsPerCluster},
		{"Reserved sectors", info.ReservedSectors},
		{"FATs", info.FATCount},
		{"Sectors per FAT", info.SectorsPerFAT},
		{"FAT entries", info.FATEntries},
		{"Root entries", info.RootEntryCount},
		{"Root directory LBA", info.RootDirectoryLBA},
		{"Root directory sectors", info.RootDirectorySectors},
		{"Data region LBA", info.DataRegionLBA},
		{"Files", info.Files},
	}
	for _, line := range lines {
		fmt.Fprintf(tw, "%s:\t%v\n", line.name, line.value)
	}
	return tw.Flush()
}

// ClusterChain writes the chain in the given format.
func ClusterChain(w io.Writer, format string, chain Chain) error {
	if format != FormatText {
		return encode(w, format, chain)
	}

	clusters := make([]string, len(chain.Clusters))
	for i, cluster := range chain.Clusters {
		clusters[i] = fmt.Sprint(cluster)
	}

	_, err := fmt.Fprintf(w, "%s: %s (%d clusters)\n", chain.Name, strings.Join(clusters, " -> "), len(chain.Clusters))
	if err == nil && chain.Error != "" {
		_, err = fmt.Fprintf(w, "  broken: %s\n", chain.Error)
	}
	return err
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func encode(w io.Writer, format string, value interface{}) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
