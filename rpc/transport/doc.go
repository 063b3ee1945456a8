// Package transport maps request messages to the metadata an HTTP client needs
// to send them. It performs no I/O.
//
// Key Components:
//
//   - Request: Interface for messages with a REST form (endpoint, method,
//     query parameters and body).
//
//   - RequestDescriptor: A snapshot of that form. It is created by
//     NewRequestDescriptor, which validates the request first, and owns copies of
//     the parameters and the body.
//
//   - RequestDescriptor.HTTPRequest: Builds a *http.Request below a base URL that
//     any http.Client can send.
package transport
