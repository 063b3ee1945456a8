// Package compat holds a corpus of golden wire vectors and checks the codecs
// against it. Each vector pairs the text form of a message with the exact bytes
// it encodes to for one protocol version, so a change to a binary layout or to
// a version gate shows up as a failing vector.
//
// The default corpus is embedded from vectors.toml. Other corpora can be loaded
// with Load, e.g. samples captured from a peer running another version.
package compat
