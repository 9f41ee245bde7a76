package assistant

import "fmt"

// ErrorMessage is the only failure text shown to customers. It does not reveal
// which stage failed.
const ErrorMessage = "Error procesando tu consulta. Por favor, inténtalo de nuevo más tarde."

// ValidationError reports a missing or blank question.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid question: " + e.Reason
}

// EmbeddingError reports a failure to embed the question, including a
// malformed vector.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding failed: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError reports a vector index failure.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retrieval failed: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a language model failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation failed: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }
