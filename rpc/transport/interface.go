package transport

import "github.com/ValentinKolb/dSearch/rpc/common"

// --------------------------------------------------------------------------
// Request
// --------------------------------------------------------------------------

// Request is implemented by messages that are sent to a server over REST
type Request interface {
	// Endpoint returns the path of the REST endpoint relative to the server root
	Endpoint() string
	// Method returns the HTTP method (e.g. http.MethodGet)
	Method() string
	// Params returns the query parameters of the request. It must not return nil.
	Params() map[string]string
	// Entity returns the request body
	Entity() []byte
}

// Validator is implemented by requests that can check themselves before they are sent.
// A nil result means the request is valid.
type Validator interface {
	Validate() *common.ValidationError
}
