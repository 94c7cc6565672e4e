package model

import "time"

// User represents an account owned by the external identity service.
// Only the fields the backend needs for display and reports are mirrored here.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Profile holds the editable user profile shown in the app
type Profile struct {
	UserID       string     `json:"user_id"`
	DisplayName  string     `json:"display_name"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	HeightCm     *float64   `json:"height_cm,omitempty"`
	StepsGoal    *float64   `json:"steps_goal,omitempty"`
	WaterGoalL   *float64   `json:"water_goal_l,omitempty"`
	MedicalNotes *string    `json:"medical_notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VitalRecord is the persisted form of one physiological reading.
// Numeric metrics carry Value; composite metrics (sleep, blood pressure)
// carry TextValue in their display encoding ("7h 30m", "120/80").
type VitalRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Value      *float64  `json:"value,omitempty"`
	TextValue  *string   `json:"text_value,omitempty"`
	Unit       string    `json:"unit"`
	Goal       *float64  `json:"goal,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReminderType distinguishes medication reminders from appointment reminders
type ReminderType string

const (
	ReminderTypeMedication  ReminderType = "medication"
	ReminderTypeAppointment ReminderType = "appointment"
)

// Reminder represents a medication or appointment reminder
type Reminder struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Type       ReminderType `json:"type"`
	Title      string       `json:"title"`
	Dosage     *string      `json:"dosage,omitempty"`
	Location   *string      `json:"location,omitempty"`
	Notes      *string      `json:"notes,omitempty"`
	RemindAt   time.Time    `json:"remind_at"`
	RepeatRule string       `json:"repeat_rule"` // none, daily, weekly, monthly
	Active     bool         `json:"active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// SessionStatus represents the status of a chat session
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusArchived SessionStatus = "archived"
)

// ChatSession represents one assistant conversation
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// MessageRole represents the role of a message sender
type MessageRole string

const (
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleUser      MessageRole = "user"
)

// ChatMessage represents a single conversation message
type ChatMessage struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// Report represents a generated wellness report
type Report struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}
