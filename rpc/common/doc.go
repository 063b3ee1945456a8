// Package common provides core types and utilities shared across the
// dSearch message layer. It defines the protocol version, the error taxonomy,
// client configuration and the logging setup used by the other packages.
//
// The package focuses on:
//   - Protocol versions that gate wire-format differences between peers
//   - Error classes shared by the binary codec and the text parser
//   - Configuration structures for the command line client
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Version: Totally ordered protocol version tag. Versions are negotiated per
//     connection and passed to the codecs, never read from a message. The range of
//     versions the codecs understand is [MinimumCompatible, Current].
//
//   - Errors: Sentinel errors (ErrMalformedStream, ErrUnsupportedVersion,
//     ErrInvalidState, ErrFieldTypeMismatch, ErrMalformedContent, ErrValidation)
//     and the typed errors that wrap them (ValidationError, VersionError, FieldError).
//     Use errors.Is to classify and errors.As to read details.
//
//   - ClientConfig: Settings for the command line client (serializer, wire version,
//     strict parsing, base url, log level).
//
//   - Logger: zerolog backed implementation of Dragonboat's logger.ILogger, installed
//     as the global logger factory by InitLoggers.
package common
