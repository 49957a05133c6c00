package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aligator/fat12/internal/fat12test"
	"github.com/spf13/afero"
)

// main writes a sample 1.44 MB floppy image to play with the fat12 command.
// Can be executed using 'go generate' from the project root.
func main() {
	dest := flag.String("o", "testdata/floppy.img", "path of the image to write")
	flag.Parse()

	if err := generate(afero.NewOsFs(), *dest); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func sampleImage() ([]byte, error) {
	readme := []byte("This is a FAT12 floppy image.\r\nIt was generated for testing.\r\n")

	var large []byte
	for i := 0; len(large) < 3000; i++ {
		large = append(large, fmt.Sprintf("line %04d\n", i)...)
	}

	return fat12test.New(fat12test.Floppy144()).
		Label("SAMPLE").
		Add(fat12test.File{Name: "SAMPLE", Attribute: 0x08}).
		Add(fat12test.File{Name: "README  TXT", Content: readme, Attribute: 0x20, WriteDate: 0x2B14, WriteTime: 0x5401}).
		AddFile("LARGE   TXT", large).
		Add(fat12test.File{Name: "EMPTY   TXT", Attribute: 0x20}).
		Add(fat12test.File{Name: "BINARY  DAT", Content: []byte{0x00, 0x01, 0x7F, 0x80, 0xE5, 0xFF}, Attribute: 0x21}).
		// A fragmented file, clusters are not in order.
		Add(fat12test.File{Name: "FRAGMENTTXT", Content: large[:1500], Attribute: 0x20, Clusters: []uint16{40, 30, 35}}).
		Build()
}

func generate(fs afero.Fs, dest string) error {
	image, err := sampleImage()
	if err != nil {
		return fmt.Errorf("could not build the image: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, dest, image, 0o644)
}
