package subscribers

import "time"

// OutcomeKind tells why a refresh did or did not update the count.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeTransportFailure OutcomeKind = "transport_failure"
	OutcomePayloadInvalid   OutcomeKind = "payload_invalid"
)

// Outcome is the result of one upstream lookup. Only OutcomeSuccess carries a Count.
type Outcome struct {
	AttemptID  string      `json:"attemptId"`
	Kind       OutcomeKind `json:"kind"`
	Count      int64       `json:"count"`
	StatusCode int         `json:"statusCode,omitempty"`
	Err        error       `json:"-"`
	Message    string      `json:"message,omitempty"`
	At         time.Time   `json:"at"`
}

func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

func transportFailure(id string, err error) Outcome {
	return Outcome{AttemptID: id, Kind: OutcomeTransportFailure, Err: err, Message: err.Error()}
}

func payloadInvalid(id string, status int, msg string) Outcome {
	return Outcome{AttemptID: id, Kind: OutcomePayloadInvalid, StatusCode: status, Message: msg}
}
