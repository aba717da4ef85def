package models

// QuizParticipant is either the creator of a quiz match or someone answering it.
// AllCorrect is computed by the quiz client and trusted as-is.
type QuizParticipant struct {
	ID         interface{} `json:"id"`
	Name       string      `json:"name"`
	Avatar     string      `json:"avatar"`
	Gender     string      `json:"gender"`
	AllCorrect bool        `json:"allCorrect,omitempty"`
}

// QuizMatch is the creator-opened, quiz-gated record for a calendar date
type QuizMatch struct {
	ID             string            `json:"id"`
	Date           string            `json:"date"`
	Creator        QuizParticipant   `json:"creator"`
	Questions      []interface{}     `json:"questions"`
	Status         string            `json:"status"`
	Matched        []QuizParticipant `json:"matched"`
	FailedAttempts []QuizParticipant `json:"failedAttempts"`
}

// Quiz statuses, stored verbatim in the table
const (
	QuizStatusAwaiting = "等待答题"
	QuizStatusMatched  = "已匹配"
)

// Bitable field names only used by the quiz table
const (
	FieldCreator        = "出题人"
	FieldQuestions      = "题目"
	FieldFailedAttempts = "答错记录"
)
