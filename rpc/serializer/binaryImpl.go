package serializer

import (
	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/stream"
)

// NewBinarySerializer creates a new serializer using the versioned binary
// stream format of the search protocol
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using stream.Output and stream.Input.
// Every call uses its own shared string table.
type binarySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg message.Message, version common.Version) ([]byte, error) {
	if err := common.CheckVersion(version); err != nil {
		return nil, err
	}

	out := stream.NewOutput(version)
	if err := msg.WriteStream(out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (b binarySerializerImpl) Deserialize(data []byte, version common.Version, msg message.Message) error {
	if err := common.CheckVersion(version); err != nil {
		return err
	}

	in := stream.NewInput(data, version)
	if err := msg.ReadStream(in); err != nil {
		return err
	}
	return in.ExpectEOF()
}

func (b binarySerializerImpl) Format() string {
	return FormatBinary
}
