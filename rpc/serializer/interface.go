package serializer

import (
	"fmt"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
)

// IRPCSerializer is the interface for all message serializers
type IRPCSerializer interface {
	// Serialize serializes a message for a peer speaking the given version
	// It returns the serialized byte array and an error if any
	Serialize(msg message.Message, version common.Version) ([]byte, error)
	// Deserialize populates msg from a byte array written by a peer speaking the given version
	// It returns an error if any
	Deserialize(b []byte, version common.Version, msg message.Message) error
	// Format returns the name of the encoding (e.g. "binary")
	Format() string
}

// Names of the available serializers
const (
	FormatBinary = "binary"
	FormatJSON   = "json"
)

// New creates the serializer for format. strict only affects text parsing.
func New(format string, strict bool) (IRPCSerializer, error) {
	switch format {
	case FormatBinary:
		return NewBinarySerializer(), nil
	case FormatJSON:
		return NewJSONSerializer(strict), nil
	default:
		return nil, fmt.Errorf("unknown serializer %q (expected %s or %s)", format, FormatBinary, FormatJSON)
	}
}
