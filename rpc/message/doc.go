/*
Package message contains the messages of the search protocol.

Every message has a binary form (stream.Streamable) and a text form (JSON).
The binary form depends on the negotiated version: the scroll request, for
example, carries an extra placeholder byte for peers older than 1.2.0.
The text form is version independent. It is read through a field registry,
so unknown fields are ignored and the order of fields does not matter.

Messages:
  - ScrollRequest: fetch the next batch of a scrolled search
  - UpdateResponse: acknowledgement of a single document update

Use New to create an empty message by name (see Names).
*/
package message
