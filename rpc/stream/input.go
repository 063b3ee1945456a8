package stream

import (
	"encoding/binary"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// Readable is implemented by everything that can be read from an Input
type Readable interface {
	// ReadStream populates the receiver from in. The layout may depend on in.Version().
	ReadStream(in *Input) error
}

// Streamable is a type that can travel in both directions
type Streamable interface {
	Writeable
	Readable
}

// maxVIntLen is the longest encoding of a 32 bit vint
const maxVIntLen = 5

// Input reads primitives from a byte slice bound to one negotiated protocol version.
// Every read names the field it reads so that errors can point at it.
type Input struct {
	data    []byte
	pos     int
	version common.Version
	shared  *SharedStrings
}

// NewInput creates an Input for version with its own shared string table
func NewInput(data []byte, version common.Version) *Input {
	return NewInputWithTable(data, version, NewSharedStrings())
}

// NewInputWithTable creates an Input that resolves shared strings from table
func NewInputWithTable(data []byte, version common.Version, table *SharedStrings) *Input {
	return &Input{data: data, version: version, shared: table}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

func (in *Input) Version() common.Version { return in.version }

// Offset returns the number of bytes consumed so far
func (in *Input) Offset() int { return in.pos }

// Remaining returns the number of unread bytes
func (in *Input) Remaining() int { return len(in.data) - in.pos }

// --------------------------------------------------------------------------
// Primitives
// --------------------------------------------------------------------------

// need returns an error if fewer than n bytes are left
func (in *Input) need(n int, field string) error {
	if in.Remaining() < n {
		return newError(in.pos, field, "data too short (need %d bytes, have %d)", n, in.Remaining())
	}
	return nil
}

// ReadUint8 reads a single raw byte
func (in *Input) ReadUint8(field string) (byte, error) {
	if err := in.need(1, field); err != nil {
		return 0, err
	}
	b := in.data[in.pos]
	in.pos++
	return b, nil
}

// ReadBool reads a byte that must be 0 or 1
func (in *Input) ReadBool(field string) (bool, error) {
	start := in.pos
	b, err := in.ReadUint8(field)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newError(start, field, "invalid bool value %d", b)
	}
}

// ReadVInt reads an unsigned varint of at most 5 bytes
func (in *Input) ReadVInt(field string) (uint32, error) {
	start := in.pos
	end := len(in.data)
	if end-start > maxVIntLen {
		end = start + maxVIntLen
	}

	v, n := binary.Uvarint(in.data[start:end])
	switch {
	case n == 0 && end-start == maxVIntLen:
		return 0, newError(start, field, "vint longer than %d bytes", maxVIntLen)
	case n == 0:
		return 0, newError(start, field, "data too short for vint")
	case n < 0 || v > uint64(^uint32(0)):
		return 0, newError(start, field, "vint overflows 32 bits")
	}

	in.pos += n
	return uint32(v), nil
}

// ReadLong reads 8 bytes big endian
func (in *Input) ReadLong(field string) (int64, error) {
	if err := in.need(8, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(in.data[in.pos : in.pos+8])
	in.pos += 8
	return int64(v), nil
}

// ReadInt reads 4 bytes big endian
func (in *Input) ReadInt(field string) (int32, error) {
	if err := in.need(4, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(in.data[in.pos : in.pos+4])
	in.pos += 4
	return int32(v), nil
}

// readLengthPrefixed reads a vint length and returns that many bytes (aliasing the input)
func (in *Input) readLengthPrefixed(field string) ([]byte, error) {
	start := in.pos
	n, err := in.ReadVInt(field)
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(in.Remaining()) {
		in.pos = start
		return nil, newError(start, field, "length prefix %d exceeds remaining %d bytes", n, in.Remaining())
	}
	b := in.data[in.pos : in.pos+int(n)]
	in.pos += int(n)
	return b, nil
}

// ReadString reads a length prefixed UTF-8 string
func (in *Input) ReadString(field string) (string, error) {
	b, err := in.readLengthPrefixed(field)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBytesRef reads a length prefixed byte slice. The result is a copy;
// a zero length yields nil.
func (in *Input) ReadBytesRef(field string) ([]byte, error) {
	b, err := in.readLengthPrefixed(field)
	if err != nil || len(b) == 0 {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadSharedString reads a string written by Output.WriteSharedString.
// A new string must carry the next free handle, a reference must carry a known one.
func (in *Input) ReadSharedString(field string) (string, error) {
	start := in.pos
	tag, err := in.ReadUint8(field)
	if err != nil {
		return "", err
	}

	handle, err := in.ReadVInt(field)
	if err != nil {
		return "", err
	}

	switch tag {
	case sharedNew:
		if int(handle) != in.shared.Len() {
			return "", newError(start, field, "shared string handle %d out of order (expected %d)", handle, in.shared.Len())
		}
		s, err := in.ReadString(field)
		if err != nil {
			return "", err
		}
		in.shared.add(s)
		return s, nil
	case sharedRef:
		s, ok := in.shared.lookup(int(handle))
		if !ok {
			return "", newError(start, field, "unknown shared string handle %d", handle)
		}
		return s, nil
	default:
		return "", newError(start, field, "invalid shared string tag %d", tag)
	}
}

// ReadStringMap reads a map written by Output.WriteStringMap
func (in *Input) ReadStringMap(field string) (map[string]string, error) {
	present, err := in.ReadBool(field)
	if err != nil || !present {
		return nil, err
	}

	n, err := in.ReadVInt(field)
	if err != nil {
		return nil, err
	}
	// every entry needs at least two bytes (two empty strings)
	if uint64(n)*2 > uint64(in.Remaining()) {
		return nil, newError(in.pos, field, "entry count %d exceeds remaining %d bytes", n, in.Remaining())
	}

	m := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k, err := in.ReadString(field)
		if err != nil {
			return nil, err
		}
		v, err := in.ReadString(field)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

// ReadOptional reads a presence flag and, if set, calls read
func (in *Input) ReadOptional(field string, read func() error) (bool, error) {
	present, err := in.ReadBool(field)
	if err != nil || !present {
		return false, err
	}
	return true, read()
}

// ExpectEOF returns an error if unread bytes are left
func (in *Input) ExpectEOF() error {
	if in.Remaining() != 0 {
		return newError(in.pos, "end of message", "%d trailing bytes", in.Remaining())
	}
	return nil
}
