package domain

// WakeDetected signals that the wake phrase was heard on the call.
type WakeDetected struct {
	TS     int64  `json:"ts"`
	Phrase string `json:"phrase"`
	By     string `json:"by"`
}

// CommandStarted signals the backend began working a command cycle.
type CommandStarted struct {
	CommandID string `json:"commandId"`
	TS        int64  `json:"ts"`
	Method    string `json:"method"`
}

// ServerError is a protocol-level error reported by the backend.
type ServerError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}
