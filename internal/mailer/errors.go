package mailer

import "fmt"

// Delivery stages, in session order.
const (
	StageConnect  = "connect"
	StageStartTLS = "starttls"
	StageAuth     = "auth"
	StageEnvelope = "envelope"
	StageData     = "data"
	StageQuit     = "quit"
)

// DeliveryError records which stage of an SMTP session failed.
// It is logged; Send itself only reports a boolean.
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
