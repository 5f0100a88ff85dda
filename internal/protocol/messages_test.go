package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numduel/numduel/internal/model"
)

func decode(t *testing.T, raw string) Inbound {
	t.Helper()
	var msg Inbound
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	return msg
}

func TestDecodeJoin(t *testing.T) {
	msg := decode(t, `{"type":"join","payload":{"sessionId":"ABC123","displayName":"Alice"}}`)
	require.Equal(t, InboundJoin, msg.Type)

	p, err := msg.DecodeJoin()
	require.NoError(t, err)
	assert.Equal(t, "ABC123", p.SessionID)
	assert.Equal(t, "Alice", p.DisplayName)
}

func TestDecodeJoinRequiresBothFields(t *testing.T) {
	msg := decode(t, `{"type":"join","payload":{"sessionId":"ABC123"}}`)
	_, err := msg.DecodeJoin()
	assert.Error(t, err)

	msg = decode(t, `{"type":"join","payload":{"displayName":"Alice"}}`)
	_, err = msg.DecodeJoin()
	assert.Error(t, err)
}

func TestDecodeJoinRejectsMalformedPayload(t *testing.T) {
	msg := decode(t, `{"type":"join","payload":"nope"}`)
	_, err := msg.DecodeJoin()
	assert.Error(t, err)
}

func TestDecodeDigits(t *testing.T) {
	msg := decode(t, `{"type":"guess","payload":{"digits":[1,7,3,9,5]}}`)
	p, err := msg.DecodeDigits()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7, 3, 9, 5}, p.Digits)
}

func TestDecodeRecoverRequiresBothFields(t *testing.T) {
	msg := decode(t, `{"type":"recover","payload":{"sessionId":"ABC123"}}`)
	_, err := msg.DecodeRecover()
	assert.Error(t, err)
}

func TestErrorFromMapsSentinels(t *testing.T) {
	cases := map[error]string{
		model.ErrInvalidDigits:    CodeInvalidDigits,
		model.ErrNotYourTurn:      CodeNotYourTurn,
		model.ErrWrongState:       CodeWrongState,
		model.ErrGameOver:         CodeGameOver,
		model.ErrSessionNotFound:  CodeSessionNotFound,
		model.ErrSessionFull:      CodeSessionFull,
		model.ErrPlayerNotFound:   CodeNotInSession,
		model.ErrRecoveryMismatch: CodeRecoveryMismatch,
	}

	for err, code := range cases {
		out := ErrorFrom(err)
		require.Equal(t, OutboundError, out.Type)
		assert.Equal(t, code, out.Payload.(ErrorPayload).Code)
	}
}

func TestErrorFromUnknownErrorIsInternal(t *testing.T) {
	out := ErrorFrom(assert.AnError)
	assert.Equal(t, CodeInternal, out.Payload.(ErrorPayload).Code)
}

func TestOutboundEnvelopeShape(t *testing.T) {
	out := NewError(CodeBadMessage, "malformed message")
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","payload":{"code":"BAD_MESSAGE","message":"malformed message"}}`, string(data))
}
