package message

import "github.com/ValentinKolb/dSearch/rpc/stream"

// Header holds the fields every message carries in front of its own payload.
// The codec does not interpret them.
type Header struct {
	Headers map[string]string
}

// PutHeader sets a header value
func (h *Header) PutHeader(key, value string) {
	if h.Headers == nil {
		h.Headers = make(map[string]string)
	}
	h.Headers[key] = value
}

// GetHeader returns a header value and whether it was set
func (h *Header) GetHeader(key string) (string, bool) {
	v, ok := h.Headers[key]
	return v, ok
}

func (h *Header) writeStream(out *stream.Output) {
	out.WriteStringMap(h.Headers)
}

func (h *Header) readStream(in *stream.Input) error {
	headers, err := in.ReadStringMap("headers")
	if err != nil {
		return err
	}
	h.Headers = headers
	return nil
}
