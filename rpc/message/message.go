package message

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ValentinKolb/dSearch/rpc/stream"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
)

// --------------------------------------------------------------------------
// Message Interface
// --------------------------------------------------------------------------

// Message is implemented by all messages of the protocol
type Message interface {
	stream.Streamable
	json.Marshaler

	// ParseXContent populates the message from a JSON object.
	// Unknown fields are ignored.
	ParseXContent(data []byte, opts ...xcontent.Option) error

	// Name returns the name of the message type (e.g. "search_scroll_request")
	Name() string
}

// Names of all message types
const (
	ScrollRequestName  = "search_scroll_request"
	UpdateResponseName = "update_response"
)

// constructors maps message names to factory functions
var constructors = map[string]func() Message{
	ScrollRequestName:  func() Message { return &ScrollRequest{} },
	UpdateResponseName: func() Message { return &UpdateResponse{} },
}

// New creates an empty message of the given type
func New(name string) (Message, error) {
	factory, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown message type %s", name)
	}
	return factory(), nil
}

// Names returns the names of all message types, sorted
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
