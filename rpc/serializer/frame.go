package serializer

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// MaxFramePayload is the largest payload ReadFrame accepts
const MaxFramePayload = 64 << 20

const frameHeaderSize = 8

// WriteFrame writes a frame with the format:
// - 4 bytes: version id (uint32, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func WriteFrame(w io.Writer, version common.Version, data []byte) error {
	if len(data) > MaxFramePayload {
		return fmt.Errorf("frame payload of %d bytes exceeds limit of %d bytes", len(data), MaxFramePayload)
	}

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header[:4], version.ID())
	binary.BigEndian.PutUint32(header[4:8], uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(w)
	return err
}

// ReadFrame reads a frame written by WriteFrame using the provided buffer.
// If the buffer is too small, a new one is allocated. The returned version is
// checked against the supported range.
func ReadFrame(r io.Reader, buf []byte) (common.Version, []byte, error) {
	if len(buf) < frameHeaderSize {
		buf = make([]byte, frameHeaderSize)
	}

	if _, err := io.ReadFull(r, buf[:frameHeaderSize]); err != nil {
		return 0, nil, err
	}

	version := common.FromID(binary.BigEndian.Uint32(buf[:4]))
	contentLength := binary.BigEndian.Uint32(buf[4:8])

	if err := common.CheckVersion(version); err != nil {
		return 0, nil, err
	}
	if contentLength > MaxFramePayload {
		return 0, nil, fmt.Errorf("%w: frame payload of %d bytes exceeds limit of %d bytes",
			common.ErrMalformedStream, contentLength, MaxFramePayload)
	}

	if contentLength == 0 {
		return version, []byte{}, nil
	}

	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, fmt.Errorf("%w: reading frame payload: %v", common.ErrMalformedStream, err)
	}

	return version, buf[:contentLength], nil
}
