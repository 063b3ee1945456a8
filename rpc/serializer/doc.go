// Package serializer provides message serialization for the search protocol.
// It defines a common interface and the implementations for the two forms every
// message has: the versioned binary stream and the version independent text form.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//     Every call takes the version negotiated with the peer and rejects versions
//     outside the supported range before touching the message.
//
//   - binarySerializerImpl: Writes and reads messages through stream.Output and
//     stream.Input. Each call has its own shared string table. Deserialize fails
//     if bytes are left after the message.
//
//   - jsonSerializerImpl: Renders messages with their MarshalJSON methods and parses
//     them through the field registries of the message package. Unknown fields are
//     ignored; mistyped fields are collected (lenient) or fail fast (strict).
//
//   - InstrumentedSerializer: Wraps any serializer and records call counts, errors,
//     payload sizes and durations per message type with VictoriaMetrics metrics.
//
//   - WriteFrame / ReadFrame: A version tagged, length prefixed envelope for
//     sending serialized messages over a byte stream.
//
// Thread Safety:
//
//	All serializer implementations are stateless (the instrumented one only holds
//	concurrency safe metric handles) and safe for concurrent use across goroutines.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(message.NewScrollRequest("abc123"), common.V1_1_0)
//	// ... send data ...
//	var req message.ScrollRequest
//	err = s.Deserialize(data, common.V1_1_0, &req)
package serializer
