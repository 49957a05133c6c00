// Package imagefile opens volume images and transparently inflates
// gzip, zstd and xz compressed ones.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aligator/fat12/checkpoint"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// MaxImageSize limits the inflated size of compressed images.
const MaxImageSize = 64 << 20

var (
	ErrOpenImage     = errors.New("could not open the image")
	ErrImageTooLarge = errors.New("inflated image is too large")
)

// Compression names the container format of an image.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	Xz   Compression = "xz"
)

var magics = []struct {
	compression Compression
	magic       []byte
}{
	{Gzip, []byte{0x1F, 0x8B}},
	{Zstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{Xz, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
}

// Detect returns the compression the header starts with.
func Detect(header []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.compression
		}
	}
	return None
}

// Image is a seekable volume image.
// Plain images are read directly from the file, compressed ones from memory.
type Image struct {
	io.ReadSeeker

	file        afero.File
	Compression Compression
	Size        int64
}

// Close releases the underlying file.
func (i *Image) Close() error {
	if i.file == nil {
		return nil
	}
	err := i.file.Close()
	i.file = nil
	i.ReadSeeker = nil
	return err
}

// Open opens the image at path of fs.
func Open(fs afero.Fs, path string) (*Image, error) {
	return open(fs, path, MaxImageSize)
}

func open(fs afero.Fs, path string, limit int64) (*Image, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	image, err := newImage(file, limit)
	if err != nil {
		file.Close()
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}
	return image, nil
}

func newImage(file afero.File, limit int64) (*Image, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", stat.Name())
	}

	header := make([]byte, 6)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	compression := Detect(header[:n])
	if compression == None {
		return &Image{
			ReadSeeker:  file,
			file:        file,
			Compression: None,
			Size:        stat.Size(),
		}, nil
	}

	content, err := inflate(file, compression, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compression, err)
	}

	return &Image{
		ReadSeeker:  bytes.NewReader(content),
		file:        file,
		Compression: compression,
		Size:        int64(len(content)),
	}, nil
}

func inflate(r io.Reader, compression Compression, limit int64) ([]byte, error) {
	var decompressed io.Reader
	switch compression {
	case Gzip:
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		decompressed = gzipReader
	case Zstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		decompressed = decoder
	case Xz:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		decompressed = xzReader
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}

	// One byte more than allowed to notice oversized images.
	content, err := io.ReadAll(io.LimitReader(decompressed, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, limit)
	}
	return content, nil
}
