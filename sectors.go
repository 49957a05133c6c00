package fat12

import (
	"errors"
	"fmt"
	"io"

	"github.com/aligator/fat12/checkpoint"
)

// sectorReader is the only way the volume touches the image.
// It mainly exists to be able to mock the image in tests.
// Generated mock using mockgen:
//
//	mockgen -source=sectors.go -destination=sectors_mock_test.go -package fat12
type sectorReader interface {
	// ReadSectors reads count consecutive sectors starting at lba.
	ReadSectors(lba uint32, count uint32) ([]byte, error)
}

// sectorAccessor reads whole sectors from an image.
// It does not cache sector data, every call seeks and reads again.
// Only the image size is determined once.
type sectorAccessor struct {
	reader     io.ReadSeeker
	sectorSize uint16

	// size of the image, -1 until the first read.
	size int64
}

func newSectorAccessor(reader io.ReadSeeker, sectorSize uint16) *sectorAccessor {
	return &sectorAccessor{
		reader:     reader,
		sectorSize: sectorSize,
		size:       -1,
	}
}

func (s *sectorAccessor) imageSize() (int64, error) {
	if s.size < 0 {
		size, err := s.reader.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		s.size = size
	}
	return s.size, nil
}

func (s *sectorAccessor) ReadSectors(lba uint32, count uint32) ([]byte, error) {
	offset := int64(lba) * int64(s.sectorSize)
	length := int64(count) * int64(s.sectorSize)

	size, err := s.imageSize()
	if err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("%w: lba %d, count %d", ErrReadSectors, lba, count))
	}

	// Nothing is allocated for sectors behind the end of the image.
	if offset+length > size {
		return nil, checkpoint.Wrap(io.ErrUnexpectedEOF, fmt.Errorf("%w: lba %d, count %d ends behind the %d byte image", ErrReadSectors, lba, count, size))
	}

	buffer := make([]byte, length)

	if err := readFullAt(s.reader, offset, buffer); err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("%w: lba %d, count %d", ErrReadSectors, lba, count))
	}

	return buffer, nil
}

// readFullAt seeks to offset and fills buffer completely.
// Hitting the end of the image before buffer is full is reported as io.ErrUnexpectedEOF.
func readFullAt(reader io.ReadSeeker, offset int64, buffer []byte) error {
	if _, err := reader.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	_, err := io.ReadFull(reader, buffer)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
