package generate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionsJSON = `{
	"versions": [
		{"label": "The Curious Peer", "tone": "casual", "subject": "quick thought", "body": "..."},
		{"label": "The Reluctant Expert", "tone": "measured", "subject": "maybe relevant", "body": "..."},
		{"label": "The Generous Observer", "tone": "warm", "subject": "noticed something", "body": "..."}
	]
}`

func fakeOpenAI(t *testing.T, content string) *openai.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func generateRouter(client *openai.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generate", NewHandler(client).Rewrite)
	return r
}

func postGenerate(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRewriteRejectsShortEmail(t *testing.T) {
	r := generateRouter(fakeOpenAI(t, versionsJSON))

	w := postGenerate(r, `{"email":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please provide an email to rewrite")
}

func TestRewriteReturnsThreeVersions(t *testing.T) {
	r := generateRouter(fakeOpenAI(t, versionsJSON))

	w := postGenerate(r, `{"email":"Hey, just checking in about that proposal I sent last week!","context":"prospect went quiet"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out rewriteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Versions, 3)
	assert.Equal(t, "The Curious Peer", out.Versions[0].Label)
	assert.Equal(t, "The Reluctant Expert", out.Versions[1].Label)
	assert.Equal(t, "The Generous Observer", out.Versions[2].Label)
}

func TestRewriteHandlesJSONWrappedInProse(t *testing.T) {
	r := generateRouter(fakeOpenAI(t, "Here you go:\n"+versionsJSON+"\nHope that helps!"))

	w := postGenerate(r, `{"email":"Hey, just checking in about that proposal I sent last week!"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out rewriteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Versions, 3)
}

func TestRewriteMapsGarbageModelOutputToGenericError(t *testing.T) {
	r := generateRouter(fakeOpenAI(t, "sorry, I cannot help with that"))

	w := postGenerate(r, `{"email":"Hey, just checking in about that proposal I sent last week!"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestParseVersionsExtractsEmbeddedObject(t *testing.T) {
	out, err := parseVersions("```json\n" + versionsJSON + "\n```")
	require.NoError(t, err)
	assert.Len(t, out.Versions, 3)
}

func TestParseVersionsRejectsEmptyVersions(t *testing.T) {
	_, err := parseVersions(`{"versions": []}`)
	assert.Error(t, err)
}
