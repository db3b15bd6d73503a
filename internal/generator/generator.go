package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusqa/campusqa/pkg/types"
)

// Common errors
var (
	ErrEmptyQuestion     = errors.New("question cannot be empty")
	ErrGenerationFailed  = fmt.Errorf("answer generation %w", types.ErrProviderFailed)
	ErrNoProviderEnabled = errors.New("no generation provider configured")
)

// Request carries a user question plus the retrieved documents that ground
// the answer.
type Request struct {
	Question  string
	Documents []types.RankedDocument
}

// Response is a generated answer
type Response struct {
	Answer   string
	Provider string
	Model    string
}

// AnswerGenerator produces a grounded natural-language answer from retrieved
// documents. Implementations must return an error rather than a partial
// answer on provider failure; callers never cache errors.
type AnswerGenerator interface {
	// Generate produces an answer for the question using the supplied documents
	Generate(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the generator
	Close() error
}

// ValidateRequest validates a generation request
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.Question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

const systemPrompt = `You are a helpful assistant answering questions about university admissions.
Answer using only the numbered reference documents provided.
If the documents do not contain the answer, say so instead of guessing.
Answer in the language of the question.`

// BuildContext formats retrieved documents as numbered reference blocks with
// title and category headers. Block order follows ranking order.
func BuildContext(docs []types.RankedDocument) string {
	if len(docs) == 0 {
		return "(no reference documents found)"
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, doc.Title)
		if doc.Category != "" {
			fmt.Fprintf(&b, " (%s)", doc.Category)
		}
		b.WriteString("\n")
		b.WriteString(doc.Content)
	}
	return b.String()
}

// BuildUserPrompt assembles the user message: reference blocks first, then
// the question.
func BuildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Reference documents:\n\n")
	b.WriteString(BuildContext(req.Documents))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(strings.TrimSpace(req.Question))
	return b.String()
}
