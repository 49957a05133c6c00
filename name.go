package fat12

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aligator/fat12/checkpoint"
	"golang.org/x/text/encoding/charmap"
)

var ErrInvalidName = errors.New("invalid 8.3 name")

// Characters which are not allowed in a short name besides control characters.
const invalidShortNameChars = "\"*+,./:;<=>?[\\]|"

// ShortName converts a name like "readme.txt" into the space padded,
// upper case 11 byte form stored in directory entries ("README  TXT").
// Non ASCII characters are encoded as code page 437.
func ShortName(name string) ([11]byte, error) {
	var result [11]byte
	for i := range result {
		result[i] = ' '
	}

	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." || name == ".." {
		return result, checkpoint.From(fmt.Errorf("%w: %q", ErrInvalidName, name))
	}

	base, ext := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		base, ext = name[:dot], name[dot+1:]
	}

	encodedBase, err := encodeShortNamePart(base, 8)
	if err != nil {
		return result, checkpoint.From(fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err))
	}
	encodedExt, err := encodeShortNamePart(ext, 3)
	if err != nil {
		return result, checkpoint.From(fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err))
	}
	if len(encodedBase) == 0 {
		return result, checkpoint.From(fmt.Errorf("%w: %q: empty base name", ErrInvalidName, name))
	}

	copy(result[:8], encodedBase)
	copy(result[8:], encodedExt)

	// 0xE5 as first byte marks deleted entries, it is stored as 0x05.
	if result[0] == entryDeleted {
		result[0] = 0x05
	}

	return result, nil
}

func encodeShortNamePart(part string, maxLen int) ([]byte, error) {
	encoded, err := charmap.CodePage437.NewEncoder().String(strings.ToUpper(part))
	if err != nil {
		return nil, fmt.Errorf("not representable in code page 437")
	}
	if len(encoded) > maxLen {
		return nil, fmt.Errorf("%q is longer than %d characters", part, maxLen)
	}
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c < 0x20 || c == ' ' || strings.IndexByte(invalidShortNameChars, c) >= 0 {
			return nil, fmt.Errorf("invalid character %q", c)
		}
	}
	return []byte(encoded), nil
}

// displayName converts a raw 11 byte name into "NAME.EXT" with UTF-8 characters.
func displayName(raw [11]byte) string {
	if raw[0] == 0x05 {
		raw[0] = entryDeleted
	}

	base := strings.TrimRight(decodeCP437(raw[:8]), " ")
	ext := strings.TrimRight(decodeCP437(raw[8:11]), " ")

	if ext != "" {
		return base + "." + ext
	}
	return base
}

func decodeCP437(b []byte) string {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
