package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-backend/configs"
	"ai-chat-backend/internal/domain"
)

// TestNewOpenAIClientAdapterWithConfig tests adapter construction with valid config
func TestNewOpenAIClientAdapterWithConfig(t *testing.T) {
	config := configs.LLM{
		BaseURL: "http://localhost:5678",
		APIKey:  "sk-test",
		Model:   "test-model",
		Timeout: 30,
	}

	adapter, err := NewOpenAIClientAdapter(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if adapter.baseURL != "http://localhost:5678" {
		t.Errorf("expected baseURL to be http://localhost:5678, got: %s", adapter.baseURL)
	}

	if adapter.apiKey != "sk-test" {
		t.Errorf("expected apiKey to be sk-test, got: %s", adapter.apiKey)
	}

	if adapter.configModel != "test-model" {
		t.Errorf("expected configModel to be test-model, got: %s", adapter.configModel)
	}

	if adapter.timeout != 30*time.Second {
		t.Errorf("expected timeout to be 30s, got: %v", adapter.timeout)
	}
}

// TestNewOpenAIClientAdapterWithDefaultValues tests adapter construction with default values
func TestNewOpenAIClientAdapterWithDefaultValues(t *testing.T) {
	config := configs.LLM{}

	adapter, err := NewOpenAIClientAdapter(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if adapter.baseURL != "http://localhost:1234" {
		t.Errorf("expected default baseURL to be http://localhost:1234, got: %s", adapter.baseURL)
	}

	if adapter.timeout != 60*time.Second {
		t.Errorf("expected default timeout to be 60s, got: %v", adapter.timeout)
	}
}

// TestChatCompletionSuccess tests non-streaming chat completion with mock HTTP server
func TestChatCompletionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected path /v1/chat/completions, got: %s", r.URL.Path)
		}

		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got: %s", r.Method)
		}

		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("expected Authorization Bearer sk-test, got: %s", r.Header.Get("Authorization"))
		}

		var reqBody chatCompletionAPIRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if reqBody.Stream {
			t.Errorf("expected stream=false for non-streaming, got: %v", reqBody.Stream)
		}

		if len(reqBody.Messages) != 2 {
			t.Errorf("expected 2 messages, got: %d", len(reqBody.Messages))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer server.Close()

	adapter, err := NewOpenAIClientAdapter(configs.LLM{
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Model:   "test-model",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	response, err := adapter.ChatCompletion(context.Background(), domain.ChatCompletionRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.ChatRoleSystem, Content: "You are a helpful assistant."},
			{Role: domain.ChatRoleUser, Content: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if response.Content != "Hello there" {
		t.Errorf("expected content 'Hello there', got: %s", response.Content)
	}

	if response.TotalTokens != 15 {
		t.Errorf("expected total tokens 15, got: %d", response.TotalTokens)
	}
}

// TestChatCompletionStreamEmitsContentAndReasoningDeltas tests SSE parsing
// of both content and reasoning deltas followed by the [DONE] marker
func TestChatCompletionStreamEmitsContentAndReasoningDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody chatCompletionAPIRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !reqBody.Stream {
			t.Error("expected stream=true for streaming request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"reasoning_content\":\"thinking...\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	adapter, err := NewOpenAIClientAdapter(configs.LLM{
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	chunks, err := adapter.ChatCompletionStream(context.Background(), domain.ChatCompletionRequest{
		Messages: []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "Hello"}},
	})
	if err != nil {
		t.Fatalf("expected no error starting stream, got: %v", err)
	}

	var content, reasoning string
	var done bool
	for chunk := range chunks {
		if chunk.Error != nil {
			t.Fatalf("unexpected chunk error: %v", chunk.Error)
		}
		content += chunk.Content
		reasoning += chunk.Reasoning
		if chunk.Done {
			done = true
		}
	}

	if content != "Hello" {
		t.Errorf("expected streamed content 'Hello', got: %s", content)
	}
	if reasoning != "thinking..." {
		t.Errorf("expected reasoning 'thinking...', got: %s", reasoning)
	}
	if !done {
		t.Error("expected a final chunk with Done=true")
	}
}

// TestChatCompletionStreamMultimodalContent tests that messages with
// parts are serialized as structured content
func TestChatCompletionStreamMultimodalContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("failed to decode request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if len(raw.Messages) != 1 {
			t.Fatalf("expected 1 message, got: %d", len(raw.Messages))
		}

		var parts []contentPartAPI
		if err := json.Unmarshal(raw.Messages[0].Content, &parts); err != nil {
			t.Errorf("expected structured content array, got: %s", raw.Messages[0].Content)
		} else {
			if len(parts) != 2 {
				t.Errorf("expected 2 content parts, got: %d", len(parts))
			}
			if parts[0].Type != "image_url" || parts[0].ImageURL == nil {
				t.Errorf("expected first part to be image_url, got: %+v", parts[0])
			}
			if parts[1].Type != "text" || parts[1].Text != "describe this" {
				t.Errorf("expected second part to be text 'describe this', got: %+v", parts[1])
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	adapter, err := NewOpenAIClientAdapter(configs.LLM{BaseURL: server.URL, Model: "test-model", Timeout: 5})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	chunks, err := adapter.ChatCompletionStream(context.Background(), domain.ChatCompletionRequest{
		Messages: []domain.ChatMessage{
			{
				Role: domain.ChatRoleUser,
				Parts: []domain.ContentPart{
					{Type: "image_url", ImageURL: "data:image/jpeg;base64,AAAA"},
					{Type: "text", Text: "describe this"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("expected no error starting stream, got: %v", err)
	}
	for range chunks {
	}
}

// TestListModelsSelectsFirstAvailableModel tests model auto-selection
// when no model is configured
func TestListModelsSelectsFirstAvailableModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("expected path /v1/models, got: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"id":"model-a","object":"model","owned_by":"org"},{"id":"model-b","object":"model","owned_by":"org"}]}`)
	}))
	defer server.Close()

	adapter, err := NewOpenAIClientAdapter(configs.LLM{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	models, err := adapter.ListModels(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got: %d", len(models))
	}
	if models[0].ID != "model-a" {
		t.Errorf("expected first model 'model-a', got: %s", models[0].ID)
	}

	model, err := adapter.getModel(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if model != "model-a" {
		t.Errorf("expected auto-selected model 'model-a', got: %s", model)
	}
}

// TestChatCompletionClientErrorIsNotRetried tests that a 4xx response
// surfaces as ErrInvalidRequest without retrying
func TestChatCompletionClientErrorIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"bad request"}`)
	}))
	defer server.Close()

	adapter, err := NewOpenAIClientAdapter(configs.LLM{BaseURL: server.URL, Model: "test-model", Timeout: 5})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	_, err = adapter.ChatCompletion(context.Background(), domain.ChatCompletionRequest{
		Messages: []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "Hello"}},
	})
	if err == nil {
		t.Fatal("expected error for 4xx response")
	}
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call (no retry on 4xx), got: %d", calls)
	}
}
