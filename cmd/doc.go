// Package cmd implements the command-line interface of dSearch. It provides
// commands to encode, decode and inspect the messages of the search protocol
// for any supported protocol version.
//
// The package is organized into several subpackages:
//
//   - scroll: Commands for scroll requests (encode, decode, describe)
//   - update: Commands for update responses (parse, encode, decode)
//   - verify: Checks the codecs against golden wire vectors
//   - bench: Throughput and latency measurements of the serializers
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dsearch -help for a list of all commands.
package cmd
