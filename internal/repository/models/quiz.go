package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONMap stores an arbitrary JSON object column (analytics payloads).
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSONMap Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(bytesToParse, m)
}

// QuizDocument is the row shape of the quizzes table. The content lives in
// quiz_data as JSON; lifecycle fields are proper columns so listing and the
// scheduled sweep never parse content.
type QuizDocument struct {
	Slug        string       `db:"slug"`
	QuizType    string       `db:"quiz_type"`
	QuizData    []byte       `db:"quiz_data"`
	Status      string       `db:"status"`
	Version     int          `db:"version"`
	PublishedAt sql.NullTime `db:"published_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// VersionSnapshot is the row shape of the quiz_versions table.
type VersionSnapshot struct {
	ID            string    `db:"id"`
	QuizSlug      string    `db:"quiz_slug"`
	Version       int       `db:"version"`
	QuizData      []byte    `db:"quiz_data"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	ChangeSummary string    `db:"change_summary"`
}

// BranchOverride is the row shape of the branch_overrides table.
type BranchOverride struct {
	ID             string    `db:"id"`
	QuizSlug       string    `db:"quiz_slug"`
	QuestionID     string    `db:"question_id"`
	OptionID       string    `db:"option_id"`
	NextQuestionID string    `db:"next_question_id"`
	Seq            int64     `db:"seq"`
	CreatedAt      time.Time `db:"created_at"`
}

// AnalyticsEvent is the row shape of the quiz_events table.
type AnalyticsEvent struct {
	ID        string    `db:"id"`
	QuizSlug  string    `db:"quiz_slug"`
	EventType string    `db:"event_type"`
	Payload   JSONMap   `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}
