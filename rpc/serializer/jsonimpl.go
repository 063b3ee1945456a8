package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
)

// NewJSONSerializer creates a new serializer using the text form of the messages.
// If strict is set, parsing stops at the first mistyped field.
func NewJSONSerializer(strict bool) IRPCSerializer {
	return &jsonSerializerImpl{strict: strict}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding.
// The text form does not depend on the version, it is only checked.
type jsonSerializerImpl struct {
	strict bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(msg message.Message, version common.Version) ([]byte, error) {
	if err := common.CheckVersion(version); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

func (j jsonSerializerImpl) Deserialize(b []byte, version common.Version, msg message.Message) error {
	if err := common.CheckVersion(version); err != nil {
		return err
	}
	return msg.ParseXContent(b, xcontent.WithStrictMode(j.strict))
}

func (j jsonSerializerImpl) Format() string {
	return FormatJSON
}
