package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"runclub/internal/core"
)

// RunLoggedMessage announces a run that has been stored in the ledger.
type RunLoggedMessage struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Distance  float64   `json:"distance"`
	Pledge    string    `json:"pledge"`
	Wealth    string    `json:"wealth"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRunLoggedMessage(run core.Run) *RunLoggedMessage {
	return &RunLoggedMessage{
		ID:        uuid.NewString(),
		Date:      run.Date,
		Distance:  run.Distance,
		Pledge:    run.Pledge,
		Wealth:    run.Wealth,
		Timestamp: time.Now(),
	}
}

// Run returns the ledger entry carried by the message.
func (m *RunLoggedMessage) Run() core.Run {
	return core.Run{Date: m.Date, Distance: m.Distance, Pledge: m.Pledge, Wealth: m.Wealth}
}

func (m *RunLoggedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RunLoggedMessageFromJSON(data []byte) (*RunLoggedMessage, error) {
	var msg RunLoggedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
