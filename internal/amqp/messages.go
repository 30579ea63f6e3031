package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"finsafe/internal/core"
)

// BalanceAlertMessage carries one low-balance alert to the alert worker.
type BalanceAlertMessage struct {
	Alert     core.BalanceAlert `json:"alert"`
	Timestamp time.Time         `json:"timestamp"`
}

var errMissingUser = errors.New("balance alert without user id")

func NewBalanceAlertMessage(alert core.BalanceAlert) *BalanceAlertMessage {
	return &BalanceAlertMessage{
		Alert:     alert,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BalanceAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BalanceAlertMessageFromJSON decodes a message and rejects alerts that do
// not name a user.
func BalanceAlertMessageFromJSON(data []byte) (*BalanceAlertMessage, error) {
	var msg BalanceAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Alert.UserID == "" {
		return nil, errMissingUser
	}
	return &msg, nil
}
