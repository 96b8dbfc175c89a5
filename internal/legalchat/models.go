package legalchat

import "time"

// Session is one user's named conversation with the legal assistant.
type Session struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID     string     `gorm:"type:varchar(26);uniqueIndex;not null" json:"session_id"`
	UserID        uint64     `gorm:"index;not null" json:"-"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Summary       string     `gorm:"type:text" json:"summary"`
	MessageCount  int        `gorm:"not null;default:0" json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Session) TableName() string { return "legal_chat_sessions" }

const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// Message is one stored bubble. Every turn produces two rows: a user row
// carrying MessageText and an assistant row carrying ResponseText plus the
// generation metadata. Readers treat each row as an independent display item.
type Message struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     string    `gorm:"type:varchar(26);not null;index:idx_legal_msg_user_session,priority:2" json:"session_id"`
	UserID        uint64    `gorm:"not null;index:idx_legal_msg_user_session,priority:1" json:"-"`
	MessageText   string    `gorm:"type:text" json:"message"`
	ResponseText  string    `gorm:"type:text" json:"response"`
	MessageType   string    `gorm:"type:varchar(16);index;not null" json:"message_type"`
	AIConfidence  float64   `gorm:"not null;default:0" json:"ai_confidence"`
	Suggestions   []string  `gorm:"serializer:json;type:text" json:"suggestions"`
	RelatedTopics []string  `gorm:"serializer:json;type:text" json:"related_topics"`
	ContextData   string    `gorm:"type:text" json:"context_data"`
	CreatedAt     time.Time `json:"timestamp"`
}

func (Message) TableName() string { return "legal_chat_messages" }

// ContextFact is an overwritable note attached to a session, used to bias
// future prompts. At most one row exists per (session_id, context_key).
type ContextFact struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID    string    `gorm:"type:varchar(26);not null;uniqueIndex:uniq_legal_ctx_session_key,priority:1" json:"session_id"`
	UserID       uint64    `gorm:"not null;index" json:"-"`
	ContextKey   string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_legal_ctx_session_key,priority:2" json:"context_key"`
	ContextValue string    `gorm:"type:text;not null" json:"context_value"`
	ContextType  string    `gorm:"type:varchar(32);not null" json:"context_type"`
	Importance   int       `gorm:"not null;default:1" json:"importance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ContextFact) TableName() string { return "legal_chat_context" }

// AIResponse is the transient reply handed back to the caller; it is never
// stored as its own entity.
type AIResponse struct {
	Text          string   `json:"response"`
	Suggestions   []string `json:"suggestions"`
	RelatedTopics []string `json:"related_topics"`
	Confidence    float64  `json:"confidence"`
}

// TurnResult is the outcome of one memory-aware turn. Err carries non-fatal
// persistence problems alongside an otherwise usable response; the caller
// always receives displayable text.
type TurnResult struct {
	Response           AIResponse `json:"response"`
	NewSessionID       string     `json:"new_session_id,omitempty"`
	AssistantMessageID uint64     `json:"assistant_message_id,omitempty"`
	Err                string     `json:"error,omitempty"`
}
