// Package mem provides the memory-mapped bus and the ROM/RAM devices
// behind it. Storage is word-indexed; narrower accesses select big-endian
// byte lanes within the addressed word.
package mem

import (
	"errors"
	"fmt"
)

// AccessWidth selects the sub-word lane size of a bus access.
type AccessWidth uint8

// Access widths.
const (
	WidthByte AccessWidth = iota
	WidthHalf
	WidthWord
)

func (w AccessWidth) String() string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthHalf:
		return "half"
	case WidthWord:
		return "word"
	default:
		return fmt.Sprintf("AccessWidth(%d)", uint8(w))
	}
}

// UnalignedError reports a half/word access whose low address bits are
// illegal for that width.
type UnalignedError struct {
	Addr  uint32
	Width AccessWidth
}

func (e *UnalignedError) Error() string {
	return fmt.Sprintf("unaligned %s access at 0x%08X", e.Width, e.Addr)
}

// ErrProgramTooLarge is returned when a program image exceeds ROM capacity.
var ErrProgramTooLarge = errors.New("program exceeds ROM capacity")

// romFill is the reset-fill pattern for ROM words. All-ones mimics erased
// flash: an unloaded word decodes as a fault instead of the halt sentinel.
const romFill = 0xFFFFFFFF

// Device is a fixed-capacity word-addressed storage device. Addresses
// beyond capacity wrap via a capacity-minus-one mask (mirrored memory)
// rather than faulting.
type Device struct {
	words    []uint32
	mask     uint32
	readOnly bool
}

// NewROM creates a read-only device of the given byte capacity, filled
// with the ROM reset pattern. Capacity must be a power of two.
func NewROM(capacity uint32) *Device {
	d := newDevice(capacity)
	d.readOnly = true
	for i := range d.words {
		d.words[i] = romFill
	}
	return d
}

// NewRAM creates a writable zero-filled device of the given byte capacity.
// Capacity must be a power of two.
func NewRAM(capacity uint32) *Device {
	return newDevice(capacity)
}

func newDevice(capacity uint32) *Device {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("device capacity must be a power of two, got %d", capacity))
	}
	return &Device{
		words: make([]uint32, capacity/4),
		mask:  capacity - 1,
	}
}

// Capacity returns the device capacity in bytes.
func (d *Device) Capacity() uint32 {
	return d.mask + 1
}

// laneShift returns the left-shift that positions a value of the given
// width into its lane, validating the byte offset for that width.
// Byte lanes are big-endian style: offset 0 = bits 31-24, offset 3 = bits 7-0.
func laneShift(addr uint32, width AccessWidth) (uint, error) {
	offset := addr & 0x3
	switch width {
	case WidthByte:
		return uint(3-offset) * 8, nil
	case WidthHalf:
		if offset != 0 && offset != 2 {
			return 0, &UnalignedError{Addr: addr, Width: width}
		}
		return uint(2-offset) * 8, nil
	case WidthWord:
		if offset != 0 {
			return 0, &UnalignedError{Addr: addr, Width: width}
		}
		return 0, nil
	default:
		panic(fmt.Sprintf("unknown access width %d", width))
	}
}

func widthMask(width AccessWidth) uint32 {
	switch width {
	case WidthByte:
		return 0xFF
	case WidthHalf:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// Read returns the value in the lane selected by addr and width.
func (d *Device) Read(addr uint32, width AccessWidth) (uint32, error) {
	shift, err := laneShift(addr, width)
	if err != nil {
		return 0, err
	}
	word := d.words[(addr&d.mask)>>2]
	return (word >> shift) & widthMask(width), nil
}

// Write stores value into the lane selected by addr and width,
// preserving lanes outside the written width. Writes to a read-only
// device are validated but perform no mutation.
func (d *Device) Write(addr uint32, value uint32, width AccessWidth) error {
	shift, err := laneShift(addr, width)
	if err != nil {
		return err
	}
	if d.readOnly {
		return nil
	}
	idx := (addr & d.mask) >> 2
	mask := widthMask(width) << shift
	d.words[idx] = (d.words[idx] &^ mask) | (value << shift & mask)
	return nil
}

// LoadWords copies a flat sequence of 32-bit words into the device
// starting at word index 0, bypassing the read-only contract. It is
// rejected outright if the sequence exceeds capacity.
func (d *Device) LoadWords(words []uint32) error {
	if len(words) > len(d.words) {
		return fmt.Errorf("%w: %d words > %d", ErrProgramTooLarge, len(words), len(d.words))
	}
	copy(d.words, words)
	return nil
}
