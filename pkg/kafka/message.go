package kafka

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PartnerCompanyEvent is the registration payload published when a partner
// company is created or updated on the platform. CorpCode is optional: a
// partner can be registered before its DART code is known.
type PartnerCompanyEvent struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id,omitempty"`
	CompanyName string `json:"company_name"`
	CorpCode    string `json:"corp_code,omitempty"`
	StockCode   string `json:"stock_code,omitempty"`
	Status      string `json:"status,omitempty"`
}

// HasCorpCode reports whether the event carries a usable registry code
func (e *PartnerCompanyEvent) HasCorpCode() bool {
	return strings.TrimSpace(e.CorpCode) != ""
}

// IncomingMessage is a consumed Kafka message plus its parsed payload
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	PartnerEvent *PartnerCompanyEvent
}

// ParsePartnerEvent parses the message value as a partner-registration event
func (m *IncomingMessage) ParsePartnerEvent() error {
	if len(m.Value) == 0 {
		return fmt.Errorf("empty message value")
	}

	var evt PartnerCompanyEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		return fmt.Errorf("failed to parse partner event: %w", err)
	}

	if evt.ID == "" {
		return fmt.Errorf("partner event missing id")
	}

	m.PartnerEvent = &evt
	return nil
}
