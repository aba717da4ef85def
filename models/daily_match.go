package models

// Participant is a user joining the open daily match.
// ID is whatever the client sent: a string or a json.Number.
type Participant struct {
	ID     interface{} `json:"id"`
	Name   string      `json:"name"`
	Avatar string      `json:"avatar"`
	Topics string      `json:"topics,omitempty"`
}

// DailyMatch is the single open-join record for a calendar date
type DailyMatch struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Participants []Participant `json:"participants"`
	Status       string        `json:"status"`
	Matched      []Participant `json:"matched"`
	Topic        string        `json:"topic"`
}

// Open-join statuses
const (
	MatchStatusWaiting = "waiting"
	MatchStatusMatched = "matched"
)

// Bitable field names of the daily match table
const (
	FieldDate         = "日期"
	FieldParticipants = "参与者"
	FieldStatus       = "状态"
	FieldMatched      = "匹配结果"
	FieldTopic        = "破冰话题"
	FieldCreatedAt    = "创建时间"
)
