package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pageza/fridgechef/backend/config"
)

// TaskKind selects which request pipeline a call belongs to.
type TaskKind string

const (
	TaskImageAnalysis    TaskKind = "image_analysis"
	TaskRecipeGeneration TaskKind = "recipe_generation"
)

// ChatRequest is the chat-completions request body. Content is always a list
// of typed parts even for text-only requests.
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`

	Task TaskKind `json:"-"`
}

// Message represents a message in the chat
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one typed part of a message: text or an image reference.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image as a URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// RequestBuilder turns domain inputs into chat requests.
type RequestBuilder struct {
	cfg config.ModelConfig
}

// NewRequestBuilder creates a RequestBuilder for the given model settings.
func NewRequestBuilder(cfg config.ModelConfig) *RequestBuilder {
	return &RequestBuilder{cfg: cfg}
}

// CheckCredential fails with ErrMissingCredential when no API key is set.
func (b *RequestBuilder) CheckCredential() error {
	if !b.cfg.HasCredential() {
		return newError(KindMissingCredential, "OpenAI API key is missing", nil)
	}
	return nil
}

// ImageAnalysis builds the ingredient-detection request for a JPEG image.
func (b *RequestBuilder) ImageAnalysis(jpeg []byte) (*ChatRequest, error) {
	if err := b.CheckCredential(); err != nil {
		return nil, err
	}
	if len(jpeg) == 0 {
		return nil, newError(KindInvalidImage, "image is empty", nil)
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
	return &ChatRequest{
		Model: b.cfg.ImageModel,
		Messages: []Message{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: imageAnalysisPrompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: dataURI}},
				},
			},
		},
		MaxTokens: b.cfg.ImageAnalysisMaxTokens,
		Task:      TaskImageAnalysis,
	}, nil
}

// RecipeGeneration builds the recipe request for the given ingredient names.
// Names are trimmed and blanks dropped; an empty list is still sent.
func (b *RequestBuilder) RecipeGeneration(names []string) (*ChatRequest, error) {
	if err := b.CheckCredential(); err != nil {
		return nil, err
	}

	return &ChatRequest{
		Model: b.cfg.TextModel,
		Messages: []Message{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: fmt.Sprintf(recipePromptTemplate, IngredientClause(names))},
				},
			},
		},
		MaxTokens: b.cfg.RecipeMaxTokens,
		Task:      TaskRecipeGeneration,
	}, nil
}

// IngredientClause joins the non-blank names with ", ".
func IngredientClause(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return strings.Join(cleaned, ", ")
}
