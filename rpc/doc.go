// Package rpc provides the message layer of a distributed document-search
// client/server protocol. Messages are validated before transmission, encoded
// to and decoded from a versioned binary stream, populated from JSON objects
// returned by a server and mapped onto REST request descriptors.
//
// The package is organized into several subpackages:
//
//   - common: Protocol versions, the error taxonomy, configuration and logging.
//
//   - stream: Byte-stream primitives (vints, longs, strings, shared strings) and
//     the version gated legacy byte.
//
//   - xcontent: Immutable field registries used to populate a message from an
//     unordered JSON object.
//
//   - message: The concrete messages (scroll request, update response and their
//     nested types).
//
//   - serializer: Binary and JSON serializers, framing and instrumentation.
//
//   - transport: Request descriptors (endpoint, method, params, body) and
//     construction of HTTP requests from them.
//
//   - compat: Golden wire vectors used to check cross-version compatibility.
package rpc
