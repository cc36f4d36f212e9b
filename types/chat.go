package types

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// Conversation groups the messages of one chat thread. DocumentID is empty
// for plain chat and immutable once set.
type Conversation struct {
	ID         string `bson:"_id" json:"id"`
	UserID     string `bson:"user_id" json:"user_id"`
	DocumentID string `bson:"document_id,omitempty" json:"document_id,omitempty"`
	Title      string `bson:"title" json:"title"`
	IsDeleted  bool   `bson:"is_deleted" json:"-"`
	CreatedAt  int64  `bson:"created_at" json:"created_at"`
	UpdatedAt  int64  `bson:"updated_at" json:"updated_at"`
}

// Message is one side of an exchange. Messages are append only.
type Message struct {
	ID             string `bson:"_id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	Role           string `bson:"role" json:"role"`
	Content        string `bson:"content" json:"content"`
	TokenCount     *int   `bson:"token_count,omitempty" json:"token_count,omitempty"`
	IsDeleted      bool   `bson:"is_deleted" json:"-"`
	CreatedAt      int64  `bson:"created_at" json:"created_at"`
}

// CompletionUsage is the token accounting reported by the AI provider.
type CompletionUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// CompletionResult is a full, non-streamed model response.
type CompletionResult struct {
	Content string          `json:"content"`
	Model   string          `json:"model"`
	Usage   CompletionUsage `json:"usage"`
}
