// Package loader reads flat RV32I program images.
//
// An image file is a sequence of 32-bit instruction words stored
// little-endian, with no header. The words are loaded into ROM starting at
// the ROM base address.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Load reads a flat binary image and returns its instruction words.
func Load(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(data)
}

// Decode converts raw image bytes into instruction words.
func Decode(data []byte) ([]uint32, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("image size %d is not a multiple of 4 bytes", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// Encode converts instruction words back into raw image bytes. It is the
// inverse of Decode and is used to write assembled programs to disk.
func Encode(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}
