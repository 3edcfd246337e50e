// Package emu provides functional SM213 emulation.
package emu

// MemoryBackend is the storage interface used by the CPU.
type MemoryBackend interface {
	// Capacity returns the number of addressable bytes.
	Capacity() int
	// Read returns length bytes starting at address.
	Read(address, length int) ([]byte, error)
	// Write stores data at ascending addresses starting at address.
	Write(address int, data []byte) error
}

// Memory is a flat, byte-addressable main memory.
//
// Multi-byte values are big-endian. Every access is bounds checked and a
// failed write leaves memory untouched.
type Memory struct {
	data []byte
}

// NewMemory allocates capacity zeroed bytes.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{data: make([]byte, capacity)}
}

// Capacity returns the size of memory in bytes.
func (m *Memory) Capacity() int {
	return len(m.data)
}

// IsAligned reports whether address is a multiple of length.
func (m *Memory) IsAligned(address, length int) bool {
	if length <= 0 {
		return false
	}
	return address%length == 0
}

// check validates the byte range [address, address+length).
func (m *Memory) check(address, length int) error {
	if address < 0 || length < 0 || address > len(m.data)-length {
		return &InvalidAddressError{
			Address:  address,
			Length:   length,
			Capacity: len(m.data),
		}
	}
	return nil
}

// Read returns a copy of length bytes starting at address. Element 0 is the
// byte at address.
func (m *Memory) Read(address, length int) ([]byte, error) {
	if err := m.check(address, length); err != nil {
		return nil, err
	}

	out := make([]byte, length)
	copy(out, m.data[address:address+length])
	return out, nil
}

// Write stores data starting at address. The whole range is validated before
// any byte is modified.
func (m *Memory) Write(address int, data []byte) error {
	if err := m.check(address, len(data)); err != nil {
		return err
	}

	copy(m.data[address:], data)
	return nil
}

// Read8 returns the byte at address.
func (m *Memory) Read8(address int) (byte, error) {
	if err := m.check(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write8 stores a single byte at address.
func (m *Memory) Write8(address int, value byte) error {
	if err := m.check(address, 1); err != nil {
		return err
	}
	m.data[address] = value
	return nil
}

// ReadUint32 reads a big-endian 32-bit word. Alignment is not required.
func (m *Memory) ReadUint32(address int) (uint32, error) {
	return ReadUint32(m, address)
}

// ReadInt32 reads a big-endian 32-bit signed word.
func (m *Memory) ReadInt32(address int) (int32, error) {
	return ReadInt32(m, address)
}

// WriteInt32 stores a big-endian 32-bit signed word.
func (m *Memory) WriteInt32(address int, value int32) error {
	return WriteInt32(m, address, value)
}

// LoadImage copies a program image into memory at address.
func (m *Memory) LoadImage(address int, image []byte) error {
	return m.Write(address, image)
}

// Bytes returns a copy of the entire memory contents.
func (m *Memory) Bytes() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// BytesToUint32 composes four bytes in big-endian order. b0 is the byte with
// the lowest address and becomes the most significant byte.
func BytesToUint32(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// BytesToInt32 is BytesToUint32 reinterpreted as a signed value.
func BytesToInt32(b0, b1, b2, b3 byte) int32 {
	return int32(BytesToUint32(b0, b1, b2, b3))
}

// Uint32ToBytes splits a value into big-endian bytes, [0] being the byte
// stored at the lowest address.
func Uint32ToBytes(value uint32) [4]byte {
	return [4]byte{
		byte(value >> 24),
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
}

// Int32ToBytes is Uint32ToBytes for a signed value.
func Int32ToBytes(value int32) [4]byte {
	return Uint32ToBytes(uint32(value))
}

// ReadUint32 reads a big-endian word from any backend.
func ReadUint32(mem MemoryBackend, address int) (uint32, error) {
	b, err := mem.Read(address, 4)
	if err != nil {
		return 0, err
	}
	return BytesToUint32(b[0], b[1], b[2], b[3]), nil
}

// ReadInt32 reads a big-endian signed word from any backend.
func ReadInt32(mem MemoryBackend, address int) (int32, error) {
	v, err := ReadUint32(mem, address)
	return int32(v), err
}

// WriteInt32 stores a big-endian signed word to any backend.
func WriteInt32(mem MemoryBackend, address int, value int32) error {
	b := Int32ToBytes(value)
	return mem.Write(address, b[:])
}
