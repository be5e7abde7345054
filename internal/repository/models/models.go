package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string column as a JSON text value.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// ExamSession is the sessions table row.
type ExamSession struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	ExamType        string          `db:"exam_type"`
	SessionType     string          `db:"session_type"`
	Difficulty      string          `db:"difficulty"`
	Medium          string          `db:"medium"`
	Topics          StringSlice     `db:"topics"`
	NumQuestions    int             `db:"num_questions"`
	DurationMinutes int             `db:"duration_minutes"`
	Status          string          `db:"status"`
	Correct         sql.NullInt64   `db:"correct_count"`
	Incorrect       sql.NullInt64   `db:"incorrect_count"`
	Unattempted     sql.NullInt64   `db:"unattempted_count"`
	Percentage      sql.NullFloat64 `db:"percentage"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	SubmittedAt     sql.NullTime    `db:"submitted_at"`
}

// Question is the questions table row.
type Question struct {
	ID             string         `db:"id"`
	SessionID      string         `db:"session_id"`
	QuestionIndex  int            `db:"question_index"`
	Topic          string         `db:"topic"`
	Difficulty     string         `db:"difficulty"`
	QuestionText   string         `db:"question_text"`
	OptionA        string         `db:"option_a"`
	OptionB        string         `db:"option_b"`
	OptionC        string         `db:"option_c"`
	OptionD        string         `db:"option_d"`
	CorrectOption  string         `db:"correct_option"`
	Explanation    string         `db:"explanation"`
	SelectedOption sql.NullString `db:"selected_option"`
	CreatedAt      time.Time      `db:"created_at"`
}

// User is the users table row.
type User struct {
	ID                    string         `db:"id"`
	GoogleID              string         `db:"google_id"`
	Email                 string         `db:"email"`
	Name                  sql.NullString `db:"name"`
	ProfilePictureURL     sql.NullString `db:"profile_picture_url"`
	Role                  string         `db:"role"`
	EncryptedRefreshToken sql.NullString `db:"encrypted_refresh_token"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

// Exam is the exams table row.
type Exam struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Topic is the topics table row.
type Topic struct {
	ID        string    `db:"id"`
	ExamID    string    `db:"exam_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
