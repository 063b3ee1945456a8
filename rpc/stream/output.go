package stream

import (
	"encoding/binary"
	"sort"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// Writeable is implemented by everything that can be written to an Output
type Writeable interface {
	// WriteStream writes the receiver to out. The layout may depend on out.Version().
	WriteStream(out *Output) error
}

// Output is an append-only byte buffer bound to one negotiated protocol version
type Output struct {
	buf     []byte
	version common.Version
	shared  *SharedStrings
}

// NewOutput creates an Output for version with its own shared string table
func NewOutput(version common.Version) *Output {
	return NewOutputWithTable(version, NewSharedStrings())
}

// NewOutputWithTable creates an Output that interns shared strings in table.
// Use this to share one table across all messages of a stream.
func NewOutputWithTable(version common.Version, table *SharedStrings) *Output {
	return &Output{
		buf:     make([]byte, 0, 64),
		version: version,
		shared:  table,
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

func (o *Output) Version() common.Version { return o.version }

// Bytes returns the written bytes. The slice aliases the internal buffer.
func (o *Output) Bytes() []byte { return o.buf }

func (o *Output) Len() int { return len(o.buf) }

// Reset drops all written bytes (the shared string table is kept)
func (o *Output) Reset() { o.buf = o.buf[:0] }

// --------------------------------------------------------------------------
// Primitives
// --------------------------------------------------------------------------

// WriteUint8 writes a single raw byte
func (o *Output) WriteUint8(b byte) {
	o.buf = append(o.buf, b)
}

// WriteBool writes a single byte (1 for true, 0 for false)
func (o *Output) WriteBool(v bool) {
	if v {
		o.buf = append(o.buf, 1)
	} else {
		o.buf = append(o.buf, 0)
	}
}

// WriteVInt writes v as an unsigned varint (7 bits per byte, low groups first)
func (o *Output) WriteVInt(v uint32) {
	o.buf = binary.AppendUvarint(o.buf, uint64(v))
}

// WriteLong writes v as 8 bytes big endian
func (o *Output) WriteLong(v int64) {
	o.buf = binary.BigEndian.AppendUint64(o.buf, uint64(v))
}

// WriteInt writes v as 4 bytes big endian
func (o *Output) WriteInt(v int32) {
	o.buf = binary.BigEndian.AppendUint32(o.buf, uint32(v))
}

// WriteString writes the byte length of s as vint followed by the UTF-8 bytes
func (o *Output) WriteString(s string) {
	o.WriteVInt(uint32(len(s)))
	o.buf = append(o.buf, s...)
}

// WriteBytesRef writes the length of b as vint followed by the bytes
func (o *Output) WriteBytesRef(b []byte) {
	o.WriteVInt(uint32(len(b)))
	o.buf = append(o.buf, b...)
}

// WriteSharedString writes s through the shared string table. The first
// occurrence is written as [0][handle][string], later ones as [1][handle].
func (o *Output) WriteSharedString(s string) {
	if handle, ok := o.shared.handle(s); ok {
		o.buf = append(o.buf, sharedRef)
		o.WriteVInt(uint32(handle))
		return
	}
	handle := o.shared.add(s)
	o.buf = append(o.buf, sharedNew)
	o.WriteVInt(uint32(handle))
	o.WriteString(s)
}

// WriteStringMap writes an optional string map as
// [bool present][vint count]([string key][string value])* with keys sorted
func (o *Output) WriteStringMap(m map[string]string) {
	if m == nil {
		o.WriteBool(false)
		return
	}
	o.WriteBool(true)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o.WriteVInt(uint32(len(keys)))
	for _, k := range keys {
		o.WriteString(k)
		o.WriteString(m[k])
	}
}

// WriteOptional writes a presence flag followed by w when present is true
func (o *Output) WriteOptional(present bool, w Writeable) error {
	o.WriteBool(present)
	if !present {
		return nil
	}
	return w.WriteStream(o)
}
