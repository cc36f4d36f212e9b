package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the uniform error envelope rendered at the HTTP boundary.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ChatResponse struct {
	UserMessage      *Message        `json:"user_message"`
	AssistantMessage *Message        `json:"assistant_message"`
	Conversation     *Conversation   `json:"conversation"`
	Usage            CompletionUsage `json:"usage"`
}

type ConversationMessagesResponse struct {
	Conversation *Conversation `json:"conversation"`
	Messages     []*Message    `json:"messages"`
}

// ProcessingDocumentStatus is pushed over the status websocket while the
// pipeline runs.
type ProcessingDocumentStatus struct {
	DocumentID   string         `json:"document_id"`
	Status       DocumentStatus `json:"status"`
	PageCount    *int           `json:"page_count,omitempty"`
	ChunkCount   *int           `json:"chunk_count,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}
