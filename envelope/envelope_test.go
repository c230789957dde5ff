package envelope_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-academy-auth/envelope"
)

func TestDecodeFailureEnvelope(t *testing.T) {
	resp, err := envelope.Decode([]byte(`{"error":true,"message":"User not found","status":404}`))
	require.NoError(t, err)
	require.True(t, resp.Error)
	require.Equal(t, 404, resp.Status)
	require.Equal(t, "User not found", resp.Message)
}

func TestDecodeDataPayload(t *testing.T) {
	resp, err := envelope.Decode([]byte(`{"data":{"id":3,"email":"a@b.c"},"error":false,"status":200}`))
	require.NoError(t, err)

	var data struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, resp.DecodeData(&data))
	require.EqualValues(t, 3, data.ID)
	require.Equal(t, "a@b.c", data.Email)
}

func TestEnvelopePropagatesDataVerbatim(t *testing.T) {
	raw, err := envelope.Decode([]byte(`{"data":{"id":3},"error":false,"status":201}`))
	require.NoError(t, err)

	body, err := json.Marshal(raw.Envelope())
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"id":3},"error":false,"status":201}`, string(body))
}

func TestFailWireShape(t *testing.T) {
	body, err := json.Marshal(envelope.Fail(503, "session service is not connected"))
	require.NoError(t, err)
	require.JSONEq(t, `{"error":true,"message":"session service is not connected","status":503}`, string(body))
}
