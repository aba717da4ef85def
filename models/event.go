package models

// Event is a dinner gathering listed in the events table
type Event struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	Distance      float64       `json:"distance"`
	Time          string        `json:"time"`
	MaxPeople     int64         `json:"maxPeople"`
	CurrentPeople int64         `json:"currentPeople"`
	Host          string        `json:"host"`
	HostAvatar    string        `json:"hostAvatar"`
	Questions     []interface{} `json:"questions"`
	Status        string        `json:"status"`
	CreateTime    int64         `json:"createTime"`
}

// EventInput is the body accepted when creating an event
type EventInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Distance    float64       `json:"distance"`
	Time        string        `json:"time"`
	MaxPeople   int64         `json:"maxPeople"`
	Host        string        `json:"host"`
	HostAvatar  string        `json:"hostAvatar"`
	Questions   []interface{} `json:"questions"`
}

// Event defaults applied when the table leaves a field blank
const (
	EventStatusRecruiting   = "招募中"
	DefaultEventHost        = "匿名"
	DefaultEventHostAvatar  = "😊"
	DefaultEventMaxPeople   = 4
	DefaultEventCurrentSize = 1
)

// Bitable field names of the events table
const (
	FieldEventTitle         = "饭局名称"
	FieldEventDescription   = "描述"
	FieldEventLocation      = "地点"
	FieldEventDistance      = "距离"
	FieldEventTime          = "时间"
	FieldEventMaxPeople     = "最大人数"
	FieldEventCurrentPeople = "当前人数"
	FieldEventHost          = "发起人"
	FieldEventHostAvatar    = "发起人头像"
	FieldEventQuestions     = "筛选问题"
)
