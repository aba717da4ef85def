package models

// Record is one row of a bitable table, fields keyed by their display name
type Record struct {
	RecordID string                 `json:"record_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// DateIndexEntry maps a (kind, date) pair to the bitable record holding it
type DateIndexEntry struct {
	IndexKey  string `dynamodbav:"indexKey" json:"indexKey"`
	RecordID  string `dynamodbav:"recordId" json:"recordId"`
	Kind      string `dynamodbav:"kind" json:"kind"`
	Date      string `dynamodbav:"date" json:"date"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// Record kinds tracked by the date index
const (
	KindDailyMatch = "match"
	KindQuizMatch  = "quiz"
)
