package types

type DocumentStatus string

const (
	DocumentStatusUploading  DocumentStatus = "uploading"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// Document is an uploaded file and its processing state. PageCount and
// ChunkCount stay nil until processing completes.
type Document struct {
	ID               string         `bson:"_id" json:"id"`
	UserID           string         `bson:"user_id" json:"user_id"`
	Filename         string         `bson:"filename" json:"filename"`
	OriginalFilename string         `bson:"original_filename" json:"original_filename"`
	FileSize         int64          `bson:"file_size" json:"file_size"`
	MimeType         string         `bson:"mime_type" json:"mime_type"`
	Status           DocumentStatus `bson:"status" json:"status"`
	PageCount        *int           `bson:"page_count,omitempty" json:"page_count,omitempty"`
	ChunkCount       *int           `bson:"chunk_count,omitempty" json:"chunk_count,omitempty"`
	FileID           string         `bson:"file_id" json:"-"`
	ErrorMessage     string         `bson:"error_message,omitempty" json:"error_message,omitempty"`
	IsDeleted        bool           `bson:"is_deleted" json:"-"`
	CreatedAt        int64          `bson:"created_at" json:"created_at"`
	UpdatedAt        int64          `bson:"updated_at" json:"updated_at"`
}

// DocumentChunk is one overlapping window of a document's extracted text.
// Word offsets are zero based positions in the whitespace-split source.
type DocumentChunk struct {
	DocumentID string `bson:"document_id" json:"document_id"`
	ChunkIndex int    `bson:"chunk_index" json:"chunk_index"`
	Content    string `bson:"content" json:"content"`
	WordCount  int    `bson:"word_count" json:"word_count"`
	CharCount  int    `bson:"char_count" json:"char_count"`
	StartWord  int    `bson:"start_word" json:"start_word"`
	EndWord    int    `bson:"end_word" json:"end_word"`
	CreatedAt  int64  `bson:"created_at" json:"-"`
}
