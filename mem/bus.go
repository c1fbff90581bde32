package mem

// Fixed memory map. Each region decodes the low 28 bits as the device
// offset; the devices themselves wrap offsets beyond their capacity.
const (
	ROMBase uint32 = 0x10000000
	ROMEnd  uint32 = 0x1FFFFFFF
	RAMBase uint32 = 0x20000000
	RAMEnd  uint32 = 0x2FFFFFFF

	regionMask uint32 = 0x0FFFFFFF
)

// Default device capacities.
const (
	DefaultROMCapacity uint32 = 1 << 20 // 1 MiB
	DefaultRAMCapacity uint32 = 4 << 20 // 4 MiB
)

// Bus routes reads and writes to the device whose address range contains
// the access, or to the open-bus default: reads yield 0, writes are
// dropped.
type Bus struct {
	rom *Device
	ram *Device
}

// NewBus creates a bus routing to the given ROM and RAM devices.
func NewBus(rom, ram *Device) *Bus {
	return &Bus{rom: rom, ram: ram}
}

// NewDefaultBus creates a bus with default-capacity ROM and RAM.
func NewDefaultBus() *Bus {
	return NewBus(NewROM(DefaultROMCapacity), NewRAM(DefaultRAMCapacity))
}

// ROM returns the ROM device.
func (b *Bus) ROM() *Device { return b.rom }

// RAM returns the RAM device.
func (b *Bus) RAM() *Device { return b.ram }

// Read decodes addr and reads from the owning device. Open-bus reads
// return 0 without error.
func (b *Bus) Read(addr uint32, width AccessWidth) (uint32, error) {
	switch {
	case addr >= ROMBase && addr <= ROMEnd:
		return b.rom.Read(addr&regionMask, width)
	case addr >= RAMBase && addr <= RAMEnd:
		return b.ram.Read(addr&regionMask, width)
	default:
		return 0, nil
	}
}

// Write decodes addr and writes to the owning device. Open-bus writes
// are no-ops.
func (b *Bus) Write(addr uint32, value uint32, width AccessWidth) error {
	switch {
	case addr >= ROMBase && addr <= ROMEnd:
		return b.rom.Write(addr&regionMask, value, width)
	case addr >= RAMBase && addr <= RAMEnd:
		return b.ram.Write(addr&regionMask, value, width)
	default:
		return nil
	}
}
