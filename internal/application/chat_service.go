package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/internal/ports/output"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultSystemPrompt = "You are a helpful assistant."

// eventChannelBufferSize bounds the gap between the LLM stream and a
// slow SSE consumer
const eventChannelBufferSize = 100

// ChatService struct - Application service implementing the streaming
// chat use case. Orchestrates the context cache, persistence, file
// storage and the upstream completion API.
type ChatService struct {
	conversations output.ConversationRepository
	llm           output.LLMClient
	cache         output.ContextCache
	storage       output.FileStorage
	systemPrompt  string
}

// NewChatService func - Creates new chat service
func NewChatService(
	conversations output.ConversationRepository,
	llm output.LLMClient,
	cache output.ContextCache,
	storage output.FileStorage,
	systemPrompt string,
) *ChatService {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &ChatService{
		conversations: conversations,
		llm:           llm,
		cache:         cache,
		storage:       storage,
		systemPrompt:  systemPrompt,
	}
}

// ListModels func - Use case: List upstream model identifiers
func (s *ChatService) ListModels(ctx context.Context) ([]string, error) {
	models, err := s.llm.ListModels(ctx)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids, nil
}

// Chat func - Use case: Run one streaming completion turn.
// All failures surface as a ChatEventError on the returned channel.
func (s *ChatService) Chat(ctx context.Context, userID uint, request domain.ChatRequest) <-chan domain.ChatEvent {
	events := make(chan domain.ChatEvent, eventChannelBufferSize)

	go func() {
		defer close(events)
		s.runChat(ctx, userID, request, events)
	}()

	return events
}

func (s *ChatService) runChat(ctx context.Context, userID uint, request domain.ChatRequest, events chan<- domain.ChatEvent) {
	conversation, err := s.conversations.GetConversation(request.ConversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.emit(ctx, events, domain.ChatEventError, domain.ErrConversationNotFound.Error())
		} else {
			logrus.Errorln(err)
			s.emit(ctx, events, domain.ChatEventError, err.Error())
		}
		return
	}
	if conversation.UserID != userID {
		s.emit(ctx, events, domain.ChatEventError, domain.ErrConversationNotFound.Error())
		return
	}

	cacheUser := CacheUserKey(userID)
	cacheConversation := CacheConversationKey(request.ConversationID)

	if !s.emit(ctx, events, domain.ChatEventUserMessage, map[string]interface{}{
		"content":         request.Message,
		"message_type":    request.MessageType,
		"conversation_id": request.ConversationID,
	}) {
		return
	}

	// The user turn enters the cache before the context snapshot so the
	// prompt always includes the message being answered
	s.cache.AddMessage(cacheUser, cacheConversation, domain.ChatRoleUser, request.Message)
	contextText, _ := s.cache.GetContext(cacheUser, cacheConversation)

	userMessage := domain.Message{
		ConversationID: request.ConversationID,
		Content:        request.Message,
		Role:           domain.ChatRoleUser,
		MessageType:    request.MessageType,
	}
	if request.FileURL != "" {
		fileURL := request.FileURL
		userMessage.FileURL = &fileURL
	}
	if err := s.conversations.AddMessage(&userMessage); err != nil {
		logrus.Errorln(err)
	}

	messages, err := s.buildMessages(contextText, request)
	if err != nil {
		logrus.Errorln(err)
		s.emit(ctx, events, domain.ChatEventError, err.Error())
		return
	}

	completionRequest := domain.ChatCompletionRequest{Messages: messages}
	if request.Model != "" {
		model := request.Model
		completionRequest.Model = &model
	}

	chunks, err := s.llm.ChatCompletionStream(ctx, completionRequest)
	if err != nil {
		logrus.Errorln(err)
		s.emit(ctx, events, domain.ChatEventError, err.Error())
		return
	}

	runID := uuid.New().String()
	if !s.emit(ctx, events, domain.ChatEventRunStart, map[string]interface{}{"run_id": runID}) {
		return
	}

	var (
		thinking     strings.Builder
		reply        strings.Builder
		thinkingOpen bool
		replyOpen    bool
	)

	closeThinking := func() bool {
		if !thinkingOpen {
			return true
		}
		thinkingOpen = false
		return s.emit(ctx, events, domain.ChatEventThinkingEnd, nil)
	}

	for chunk := range chunks {
		if chunk.Error != nil {
			logrus.Errorln(chunk.Error)
			s.emit(ctx, events, domain.ChatEventError, chunk.Error.Error())
			return
		}

		if chunk.Reasoning != "" {
			if !thinkingOpen {
				thinkingOpen = true
				if !s.emit(ctx, events, domain.ChatEventThinkingStart, nil) {
					return
				}
			}
			thinking.WriteString(chunk.Reasoning)
			if !s.emit(ctx, events, domain.ChatEventThinkingProcess, chunk.Reasoning) {
				return
			}
		}

		if chunk.Content != "" {
			if !closeThinking() {
				return
			}
			if !replyOpen {
				replyOpen = true
				if !s.emit(ctx, events, domain.ChatEventTextMessageStart, nil) {
					return
				}
			}
			reply.WriteString(chunk.Content)
			if !s.emit(ctx, events, domain.ChatEventTextMessageDelta, chunk.Content) {
				return
			}
		}

		if chunk.Done {
			break
		}
	}

	if !closeThinking() {
		return
	}
	if replyOpen {
		if !s.emit(ctx, events, domain.ChatEventTextMessageEnd, nil) {
			return
		}
	}

	replyText := reply.String()
	stored := replyText
	if thinking.Len() > 0 {
		stored = fmt.Sprintf("[思考过程]\n%s\n[模型回复]\n%s", thinking.String(), replyText)
	}

	assistantMessage := domain.Message{
		ConversationID: request.ConversationID,
		Content:        stored,
		Role:           domain.ChatRoleAssistant,
		MessageType:    domain.MessageTypeText,
	}
	if err := s.conversations.AddMessage(&assistantMessage); err != nil {
		logrus.Errorln(err)
	}

	// Only the visible reply feeds the context; thinking stays out of
	// future prompts
	if replyText != "" {
		s.cache.AddMessage(cacheUser, cacheConversation, domain.ChatRoleAssistant, replyText)
	}

	s.emit(ctx, events, domain.ChatEventRunEnd, map[string]interface{}{"run_id": runID})
}

// buildMessages assembles the upstream prompt for one turn. The cached
// conversation context rides along as a second system message.
func (s *ChatService) buildMessages(contextText string, request domain.ChatRequest) ([]domain.ChatMessage, error) {
	messages := []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: s.systemPrompt},
	}

	if contextText != "" {
		messages = append(messages, domain.ChatMessage{
			Role:    domain.ChatRoleSystem,
			Content: "Conversation so far:\n" + contextText,
		})
	}

	switch request.MessageType {
	case domain.MessageTypeImage:
		part, err := s.imagePart(request.FileURL)
		if err != nil {
			return nil, err
		}
		messages = append(messages, domain.ChatMessage{
			Role: domain.ChatRoleUser,
			Parts: []domain.ContentPart{
				*part,
				{Type: "text", Text: request.Message},
			},
		})
	case domain.MessageTypeDocument:
		content, err := s.fileContent(request.FileURL)
		if err != nil {
			return nil, err
		}
		messages = append(messages, domain.ChatMessage{
			Role:    domain.ChatRoleSystem,
			Content: "The user attached a document with the following content:\n" + string(content),
		})
		messages = append(messages, domain.ChatMessage{
			Role:    domain.ChatRoleUser,
			Content: request.Message,
		})
	default:
		messages = append(messages, domain.ChatMessage{
			Role:    domain.ChatRoleUser,
			Content: request.Message,
		})
	}

	return messages, nil
}

// imagePart loads an uploaded image and inlines it as a base64 data URL
func (s *ChatService) imagePart(fileURL string) (*domain.ContentPart, error) {
	content, err := s.fileContent(fileURL)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileURL))
	if contentType == "" {
		contentType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))
	return &domain.ContentPart{Type: "image_url", ImageURL: dataURL}, nil
}

func (s *ChatService) fileContent(fileURL string) ([]byte, error) {
	if fileURL == "" {
		return nil, fmt.Errorf("%w: missing file_url for attachment message", domain.ErrInvalidRequest)
	}
	filename := filepath.Base(fileURL)
	content, err := s.storage.Read(filename)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// emit sends one event, giving up when the caller went away
func (s *ChatService) emit(ctx context.Context, events chan<- domain.ChatEvent, eventType string, data interface{}) bool {
	select {
	case events <- domain.ChatEvent{Type: eventType, Data: data}:
		return true
	case <-ctx.Done():
		return false
	}
}
