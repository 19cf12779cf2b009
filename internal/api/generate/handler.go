package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"reluctant-seller-api/internal/validation"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

const (
	completionTimeout = 30 * time.Second

	maxEmailLength   = 15000
	maxContextLength = 3000
	minEmailLength   = 10
)

type Handler struct {
	client *openai.Client
}

func NewHandler(client *openai.Client) *Handler {
	return &Handler{client: client}
}

type rewriteRequest struct {
	Email   string `json:"email"`
	Context string `json:"context"`
}

type rewriteVersion struct {
	Label   string `json:"label"`
	Tone    string `json:"tone"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type rewriteResponse struct {
	Versions []rewriteVersion `json:"versions"`
}

// Rewrite turns a sales email into three reluctant-seller versions. The
// entitlement middleware has already vetted the caller; this handler only
// validates input, runs the completion with a hard deadline and returns the
// parsed versions.
func (h *Handler) Rewrite(c *gin.Context) {
	var body rewriteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	email := validation.ClampString(body.Email, maxEmailLength)
	extraContext := validation.ClampString(body.Context, maxContextLength)

	if len(email) < minEmailLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an email to rewrite"})
		return
	}

	userPrompt := "Rewrite the following email into 3 reluctant seller versions:\n\n---\n" + email + "\n---"
	if extraContext != "" {
		userPrompt += "\n\nAdditional context about the recipient/situation:\n" + extraContext
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), completionTimeout)
	defer cancel()

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     openai.GPT4o,
		MaxTokens: 4096,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		log.Println("Generate error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(resp.Choices) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	parsed, err := parseVersions(resp.Choices[0].Message.Content)
	if err != nil {
		log.Println("Generate parse error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, parsed)
}

// parseVersions accepts either clean JSON or JSON wrapped in surrounding
// prose, since models occasionally ignore the output instructions.
func parseVersions(text string) (*rewriteResponse, error) {
	var out rewriteResponse
	if err := json.Unmarshal([]byte(text), &out); err == nil && len(out.Versions) > 0 {
		return &out, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, err
	}
	if len(out.Versions) == 0 {
		return nil, errors.New("model response missing versions")
	}
	return &out, nil
}
