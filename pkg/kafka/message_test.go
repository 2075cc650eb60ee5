package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartnerEvent(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{
		"id": "P1",
		"member_id": "M1",
		"company_name": "Acme Corp",
		"corp_code": "00123456",
		"stock_code": "005930",
		"status": "ACTIVE"
	}`)}

	require.NoError(t, msg.ParsePartnerEvent())
	require.NotNil(t, msg.PartnerEvent)
	assert.Equal(t, "P1", msg.PartnerEvent.ID)
	assert.Equal(t, "00123456", msg.PartnerEvent.CorpCode)
	assert.True(t, msg.PartnerEvent.HasCorpCode())
}

func TestParsePartnerEvent_MissingCorpCode(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"id": "P1", "company_name": "Acme Corp"}`)}

	require.NoError(t, msg.ParsePartnerEvent())
	assert.False(t, msg.PartnerEvent.HasCorpCode())
}

func TestParsePartnerEvent_BlankCorpCodeIsMissing(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"id": "P1", "company_name": "Acme", "corp_code": "   "}`)}

	require.NoError(t, msg.ParsePartnerEvent())
	assert.False(t, msg.PartnerEvent.HasCorpCode())
}

func TestParsePartnerEvent_EmptyValue(t *testing.T) {
	msg := &IncomingMessage{}
	assert.Error(t, msg.ParsePartnerEvent())
}

func TestParsePartnerEvent_MissingID(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"company_name": "Acme Corp"}`)}
	assert.Error(t, msg.ParsePartnerEvent())
}

func TestParsePartnerEvent_InvalidJSON(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{not json`)}
	assert.Error(t, msg.ParsePartnerEvent())
}
