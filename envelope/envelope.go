package envelope

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ServiceResponse is the uniform result shape every operation in the system
// returns, both internally and across service boundaries. A gateway maps the
// Status field directly onto a transport status code.
type ServiceResponse struct {
	Data    any    `json:"data,omitempty"`
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}

// Raw mirrors ServiceResponse with the data payload left undecoded, for
// callers that need to branch on Error/Status before committing to a data
// type, or to propagate a remote envelope verbatim.
type Raw struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Error   bool            `json:"error"`
	Message string          `json:"message,omitempty"`
	Status  int             `json:"status"`
}

// OK builds a success envelope.
func OK(status int, data any) ServiceResponse {
	return ServiceResponse{
		Data:   data,
		Status: status,
	}
}

// Fail builds a failure envelope with a human-readable message. The message
// must never contain internal identifiers or stack traces.
func Fail(status int, message string) ServiceResponse {
	return ServiceResponse{
		Error:   true,
		Message: message,
		Status:  status,
	}
}

// Decode parses a wire body into a Raw envelope.
func Decode(body []byte) (Raw, error) {
	var r Raw
	if err := json.Unmarshal(body, &r); err != nil {
		return Raw{}, errors.Wrap(err, "[envelope.Decode] unmarshal")
	}
	return r, nil
}

// DecodeData unmarshals the envelope's data payload into v.
func (r Raw) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return errors.New("[envelope.DecodeData] empty data payload")
	}
	return errors.Wrap(json.Unmarshal(r.Data, v), "[envelope.DecodeData] unmarshal")
}

// Envelope converts a Raw envelope back into a ServiceResponse so a remote
// result can be propagated to the caller unchanged.
func (r Raw) Envelope() ServiceResponse {
	resp := ServiceResponse{
		Error:   r.Error,
		Message: r.Message,
		Status:  r.Status,
	}
	if len(r.Data) > 0 {
		resp.Data = r.Data
	}
	return resp
}
