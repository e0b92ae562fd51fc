// Package models contains data types and constants for the webchat client.
package models

// Server endpoints, relative to the configured server URL
const (
	EndpointHistory = "/get_history"
	EndpointSend    = "/send_message"
)

// Transport modes for delivering a message to the server
const (
	TransportJSON   = "json"   // POST, single JSON response
	TransportStream = "stream" // POST, chunked "data: " frames
	TransportSSE    = "sse"    // GET, server-sent events
)

// ResetCommand is what the server treats as a request to wipe the conversation.
const ResetCommand = "/chat reset"

// Acknowledgements the server sends after a reset
const (
	ResetAckRetained = "Chat history has been reset, system prompt retained."
	ResetAckPlain    = "Chat history has been reset."
)

// ConnectionErrorText is rendered when an event subscription fails.
const ConnectionErrorText = "Error connecting to server."

// AvailableTransports returns the supported transport mode names
func AvailableTransports() []string {
	return []string{TransportJSON, TransportStream, TransportSSE}
}

// IsValidTransport reports whether name is a supported transport mode
func IsValidTransport(name string) bool {
	for _, t := range AvailableTransports() {
		if t == name {
			return true
		}
	}
	return false
}

// IsResetAck reports whether s is one of the known reset acknowledgements
func IsResetAck(s string) bool {
	return s == ResetAckRetained || s == ResetAckPlain
}
