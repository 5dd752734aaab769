package types

import "fmt"

// Transport is the transport over which obsidian-mcp speaks MCP to the calling agent.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ServerMetadata represents the server metadata response
type ServerMetadata struct {
	Version string `json:"version"`
}

// ValidateTransport validates the input string and returns the corresponding Transport.
// An empty input selects the default stdio transport.
func ValidateTransport(input string) (Transport, error) {
	switch input {
	case string(TransportStdio), "":
		return TransportStdio, nil
	case string(TransportHTTP):
		return TransportHTTP, nil
	default:
		return "", fmt.Errorf(
			"unsupported transport type: %s (acceptable values: '%s', '%s')",
			input, TransportStdio, TransportHTTP,
		)
	}
}
