package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"ai-chat-backend/configs"
	"ai-chat-backend/internal/domain"

	"github.com/sirupsen/logrus"
)

// OpenAIClientAdapter struct - Output adapter for an OpenAI-compatible
// completion API (LM Studio, Ark, DashScope and friends)
type OpenAIClientAdapter struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	configModel string
	timeout     time.Duration

	// Model caching
	cachedModel string
	modelMu     sync.RWMutex
}

// NewOpenAIClientAdapter func - Creates new completion API client adapter
func NewOpenAIClientAdapter(config configs.LLM) (*OpenAIClientAdapter, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:1234"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	adapter := &OpenAIClientAdapter{
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      config.APIKey,
		configModel: config.Model,
		timeout:     timeout,
	}

	logrus.Infof("LLM client adapter initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return adapter, nil
}

// Retry configuration constants
const (
	maxRetryAttempts  = 5
	initialDelay      = 1 * time.Second
	maxDelay          = 30 * time.Second
	backoffMultiplier = 2
)

// Streaming configuration constants
const (
	streamingChannelBufferSize = 100
)

func (a *OpenAIClientAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
}

// retryWithBackoff executes an operation with exponential backoff retry logic
func (a *OpenAIClientAdapter) retryWithBackoff(ctx context.Context, operation func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		resp, err := operation()

		if err != nil {
			if !a.isTransientError(err, 0) {
				return nil, err
			}
			lastErr = err
			logrus.Warnf("LLM request attempt %d/%d failed with error: %v, retrying in %v", attempt, maxRetryAttempts, err, delay)
		} else if resp != nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}

			// Don't retry on 4xx client errors
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))
			}

			// Retry on 5xx server errors
			if a.isTransientError(nil, resp.StatusCode) {
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				lastErr = fmt.Errorf("server error: status %d - %s", resp.StatusCode, string(body))
				logrus.Warnf("LLM request attempt %d/%d failed with status %d, retrying in %v", attempt, maxRetryAttempts, resp.StatusCode, delay)
			} else {
				return resp, nil
			}
		}

		if attempt < maxRetryAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}

			delay = delay * backoffMultiplier
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v after %d attempts", domain.ErrLLMUnavailable, lastErr, maxRetryAttempts)
	}
	return nil, fmt.Errorf("%w: max retries exceeded", domain.ErrLLMUnavailable)
}

// isTransientError determines if an error or status code is transient and should be retried
func (a *OpenAIClientAdapter) isTransientError(err error, statusCode int) bool {
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	// 4xx errors are NOT transient
	if statusCode >= 400 && statusCode < 500 {
		return false
	}

	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := err.Error()
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"EOF",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(strings.ToLower(errMsg), strings.ToLower(pattern)) {
			return true
		}
	}

	return false
}

// ListModels queries the /v1/models endpoint to retrieve available upstream models
func (a *OpenAIClientAdapter) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	url := fmt.Sprintf("%s/v1/models", a.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list models request: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	var modelsResp modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	models := make([]domain.ModelInfo, len(modelsResp.Data))
	for i, m := range modelsResp.Data {
		models[i] = domain.ModelInfo{
			ID:      m.ID,
			Object:  m.Object,
			OwnedBy: m.OwnedBy,
		}
	}

	logrus.Infof("Listed %d models from upstream", len(models))

	return models, nil
}

// getModel returns the model to use for requests, with caching
func (a *OpenAIClientAdapter) getModel(ctx context.Context) (string, error) {
	a.modelMu.RLock()
	if a.cachedModel != "" {
		model := a.cachedModel
		a.modelMu.RUnlock()
		return model, nil
	}
	a.modelMu.RUnlock()

	a.modelMu.Lock()
	defer a.modelMu.Unlock()

	if a.cachedModel != "" {
		return a.cachedModel, nil
	}

	if a.configModel != "" {
		a.cachedModel = a.configModel
		logrus.Infof("Using configured model: %s", a.cachedModel)
		return a.cachedModel, nil
	}

	models, err := a.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get models for selection: %w", err)
	}

	if len(models) == 0 {
		return "", fmt.Errorf("%w: no models available upstream", domain.ErrLLMUnavailable)
	}

	a.cachedModel = models[0].ID
	logrus.Infof("Selected first available model: %s", a.cachedModel)

	return a.cachedModel, nil
}

// buildAPIMessages converts domain messages to their wire form. Messages
// carrying Parts are serialized as structured multimodal content.
func buildAPIMessages(messages []domain.ChatMessage) []chatMessageAPI {
	apiMessages := make([]chatMessageAPI, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			apiMessages[i] = chatMessageAPI{Role: string(msg.Role), Content: msg.Content}
			continue
		}
		parts := make([]contentPartAPI, len(msg.Parts))
		for j, part := range msg.Parts {
			parts[j] = contentPartAPI{Type: part.Type, Text: part.Text}
			if part.ImageURL != "" {
				parts[j].ImageURL = &imageURLAPI{URL: part.ImageURL}
			}
		}
		apiMessages[i] = chatMessageAPI{Role: string(msg.Role), Content: parts}
	}
	return apiMessages
}

// ChatCompletion sends a non-streaming chat completion request
func (a *OpenAIClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	model, err := a.getModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	if request.Model != nil && *request.Model != "" {
		model = *request.Model
	}

	reqBody := chatCompletionAPIRequest{
		Model:    model,
		Messages: buildAPIMessages(request.Messages),
		Stream:   false,
	}

	if request.Temperature != nil {
		reqBody.Temperature = request.Temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", a.baseURL)

	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		a.setHeaders(req)
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp chatCompletionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := apiResp.Choices[0].Message.Content

	response := &domain.ChatCompletionResponse{
		Content:          content,
		Model:            apiResp.Model,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}

	logrus.Infof("Chat completion successful, model: %s, tokens: %d", response.Model, response.TotalTokens)

	return response, nil
}

// ChatCompletionStream sends a streaming chat completion request.
// Returns a read-only channel that emits ChatCompletionChunk as they arrive.
func (a *OpenAIClientAdapter) ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
	model, err := a.getModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	if request.Model != nil && *request.Model != "" {
		model = *request.Model
	}

	reqBody := chatCompletionAPIRequest{
		Model:    model,
		Messages: buildAPIMessages(request.Messages),
		Stream:   true,
	}

	if request.Temperature != nil {
		reqBody.Temperature = request.Temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal streaming request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", a.baseURL)

	// No retry for streaming - we want immediate feedback
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming request: %w", err)
	}
	a.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send streaming request: %w", err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d - %s", domain.ErrLLMUnavailable, resp.StatusCode, string(body))
	}

	chunkChan := make(chan domain.ChatCompletionChunk, streamingChannelBufferSize)

	go a.processStreamingResponse(ctx, resp, chunkChan)

	logrus.Infof("Started streaming chat completion with model: %s", model)

	return chunkChan, nil
}

// processStreamingResponse parses SSE from response body and sends chunks to channel.
// This runs in a goroutine and is responsible for closing the channel when done.
func (a *OpenAIClientAdapter) processStreamingResponse(ctx context.Context, resp *http.Response, chunkChan chan<- domain.ChatCompletionChunk) {
	defer func() {
		resp.Body.Close()
		close(chunkChan)
		logrus.Debug("Streaming response processing completed, channel closed")
	}()

	scanner := bufio.NewScanner(resp.Body)

	for {
		select {
		case <-ctx.Done():
			logrus.Debug("Streaming cancelled by context")
			a.sendChunk(chunkChan, domain.ChatCompletionChunk{
				Done:  true,
				Error: fmt.Errorf("streaming cancelled: %w", ctx.Err()),
			})
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logrus.Errorf("Error reading streaming response: %v", err)
				a.sendChunk(chunkChan, domain.ChatCompletionChunk{
					Done:  true,
					Error: fmt.Errorf("failed to read streaming response: %w", err),
				})
			} else {
				// EOF reached without [DONE] - treat as normal completion
				logrus.Debug("Streaming EOF reached")
				a.sendChunk(chunkChan, domain.ChatCompletionChunk{
					Done: true,
				})
			}
			return
		}

		line := scanner.Text()

		if line == "" {
			continue
		}

		chunk, done, err := a.parseSSELine(line)
		if err != nil {
			logrus.Warnf("Error parsing SSE line: %v, line: %s", err, line)
			continue // Skip malformed lines but continue processing
		}

		if done {
			logrus.Debug("Received [DONE] marker, completing stream")
			a.sendChunk(chunkChan, domain.ChatCompletionChunk{
				Done: true,
			})
			return
		}

		if chunk != nil {
			select {
			case <-ctx.Done():
				logrus.Debug("Streaming cancelled by context during send")
				return
			default:
			}

			a.sendChunk(chunkChan, *chunk)
		}
	}
}

// sendChunk safely sends a chunk to the channel
func (a *OpenAIClientAdapter) sendChunk(chunkChan chan<- domain.ChatCompletionChunk, chunk domain.ChatCompletionChunk) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("Failed to send chunk (channel may be closed): %v", r)
		}
	}()

	chunkChan <- chunk
}

// parseSSELine parses a single SSE line and extracts the chat completion chunk.
// Returns (chunk, done, error) where:
//   - chunk: the parsed chunk (nil if line doesn't contain content)
//   - done: true if this is the [DONE] marker
//   - error: parsing error (non-fatal, caller should continue)
func (a *OpenAIClientAdapter) parseSSELine(line string) (*domain.ChatCompletionChunk, bool, error) {
	if !strings.HasPrefix(line, "data: ") {
		// Not a data line, skip it (could be event:, id:, retry:, or comment)
		return nil, false, nil
	}

	data := strings.TrimPrefix(line, "data: ")

	if data == "[DONE]" {
		return nil, true, nil
	}

	var sseResp chatCompletionStreamResponse
	if err := json.Unmarshal([]byte(data), &sseResp); err != nil {
		return nil, false, fmt.Errorf("failed to parse SSE JSON: %w", err)
	}

	if len(sseResp.Choices) == 0 {
		return nil, false, nil
	}

	delta := sseResp.Choices[0].Delta

	// Empty deltas still yield a valid chunk (some carry only role info)
	chunk := &domain.ChatCompletionChunk{
		Content:   delta.Content,
		Reasoning: delta.ReasoningContent,
		Done:      false,
		Error:     nil,
	}

	return chunk, false, nil
}

// API request/response structures for the OpenAI-compatible API

// chatMessageAPI represents a message in the API request. Content is
// either a plain string or a []contentPartAPI for multimodal messages.
type chatMessageAPI struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// contentPartAPI represents one element of structured message content
type contentPartAPI struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *imageURLAPI `json:"image_url,omitempty"`
}

type imageURLAPI struct {
	URL string `json:"url"`
}

// chatCompletionAPIRequest represents the request body for chat completions
type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessageAPI `json:"messages"`
	Stream      bool             `json:"stream"`
	Temperature *float64         `json:"temperature,omitempty"`
}

// chatCompletionAPIResponse represents the response from non-streaming chat completions
type chatCompletionAPIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// chatCompletionStreamResponse represents a single SSE chunk from streaming chat completions
type chatCompletionStreamResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role             string `json:"role,omitempty"`
			Content          string `json:"content,omitempty"`
			ReasoningContent string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// modelsResponse represents the response from the /v1/models endpoint
type modelsResponse struct {
	Object string `json:"object"`
	Data   []struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}
