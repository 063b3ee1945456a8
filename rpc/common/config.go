package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the settings used when building and reading messages
type ClientConfig struct {
	// Serializer is the name of the serializer to use (binary, json)
	Serializer string

	// WireVersion is the protocol version negotiated with the peer
	WireVersion Version

	// Strict makes text population fail on the first mistyped field
	Strict bool

	// BaseURL is the server address used when rendering HTTP requests
	BaseURL string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Codec settings
	addSection("Codec")
	addField("Serializer", c.Serializer)
	addField("Wire Version", c.WireVersion.String())
	addField("Supported Range", fmt.Sprintf("%s - %s", MinimumCompatible, Current))
	addField("Strict Text Parsing", fmt.Sprintf("%t", c.Strict))

	// Transport descriptor settings
	addSection("Transport")
	addField("Base URL", c.BaseURL)

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
