// Package types holds the wire envelopes shared by every terminal endpoint.
package types

// SuccessEnvelope wraps each successful payload under a single data key so
// the register UI can unwrap responses uniformly.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape: a stable machine code the UI branches
// on, a human-readable message, and optional structured details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope mirrors SuccessEnvelope for the failure path.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
