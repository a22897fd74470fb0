package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	StudentID string `json:"studentId"`
	CourseID  string `json:"courseId"`
}

func TestEncodeDecodeWire_RoundTrips(t *testing.T) {
	envelope := Envelope{
		EventID:       "evt-1",
		CorrelationID: "corr-1",
		Source:        "purchase-service",
		Version:       "1.0.0",
		ProducedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	payload := samplePayload{StudentID: "S1", CourseID: "C1"}

	wire, err := Encode(payload, envelope)
	require.NoError(t, err)

	raw := RawRecord{Topic: TopicPurchaseCreated, Value: wire}
	enriched, err := DecodeWire(raw)
	require.NoError(t, err)

	assert.Equal(t, envelope.EventID, enriched.Envelope.EventID)
	assert.Equal(t, envelope.CorrelationID, enriched.Envelope.CorrelationID)

	var decoded samplePayload
	require.NoError(t, enriched.Decode(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestDecodeWire_RejectsMissingEventID(t *testing.T) {
	wire, err := Encode(samplePayload{}, Envelope{Source: "x"})
	require.NoError(t, err)

	_, err = DecodeWire(RawRecord{Value: wire})
	assert.Error(t, err)
}

func TestDecodeWire_RejectsInvalidJSON(t *testing.T) {
	_, err := DecodeWire(RawRecord{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestDeriveEventID_IsStableForSameKey(t *testing.T) {
	id1 := DeriveEventID(TopicPurchaseCreated, "S1", "C1")
	id2 := DeriveEventID(TopicPurchaseCreated, "S1", "C1")
	id3 := DeriveEventID(TopicPurchaseCreated, "S1", "C2")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "midaz.transaction.active", JoinKey("midaz", "transaction", "active"))
}
