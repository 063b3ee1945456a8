// Package stream provides the byte-stream primitives used by the binary codec.
//
// An Output appends primitives to a buffer and an Input reads them back. Both are
// bound to the protocol version negotiated for the connection, which message
// implementations consult to decide which fields are on the wire.
//
// Wire primitives:
//
//   - uint8: one raw byte
//   - bool: one byte, 0 or 1 (any other value is rejected)
//   - vint: unsigned varint, 7 bits per byte, low groups first, at most 5 bytes
//   - int / long: 4 / 8 bytes big endian
//   - string / bytes: vint byte length followed by the raw bytes
//   - shared string: [0][vint handle][string] on first occurrence,
//     [1][vint handle] afterwards. Handles are assigned in first-occurrence order
//     by an explicit SharedStrings table owned by the Output or Input.
//   - string map: [bool present][vint count]([string key][string value])*, keys sorted
//
// LegacyByte models a placeholder byte that is only on the wire for versions
// older than a threshold. Its Write and Read methods evaluate the same version
// predicate, which is the only thing deciding whether the byte is present.
//
// Decoding errors are *Error values carrying the offset and field name; they
// all match common.ErrMalformedStream.
//
// Thread Safety:
//
//	Output, Input and SharedStrings are not safe for concurrent use. Create one
//	per message (or per stream) and keep it on a single goroutine.
package stream
