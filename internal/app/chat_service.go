package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/ai"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

const (
	titleMaxChars      = 50
	previewMaxChars    = 100
	historyFetchLimit  = 20
	defaultPageLimit   = 20
	maxPageLimit       = 100
)

// Store interfaces are satisfied by the repository package; they are narrow
// so the service can be exercised with fakes.

type ConversationStore interface {
	Create(conversation *model.Conversation) error
	GetByID(id string) (*model.Conversation, error)
	CountByUserID(userID string) (int64, error)
	ListByUserID(userID string, page, limit int) ([]model.Conversation, error)
	SoftDelete(id string) error
	AddTokens(id string, tokens int) error
	ClaimSequences(id string, n int) (int, error)
	AttachDocuments(conversationID string, documentIDs []string) error
	ListDocumentIDs(conversationID string) ([]string, error)
}

type MessageStore interface {
	CountByConversationID(conversationID string) (int64, error)
	ListByConversationID(conversationID string) ([]model.Message, error)
	ListRecentByConversationID(conversationID string, limit int) ([]model.Message, error)
	LastByConversationID(conversationID string) (*model.Message, error)
}

type UserStore interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
}

type DocumentLister interface {
	ListByIDs(ids []string) ([]model.Document, error)
}

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, conversationID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, conversationID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, conversationID string) error
	MarkDirty(ctx context.Context, conversationID string) error
	IsDirty(ctx context.Context, conversationID string) (bool, error)
}

// ContextRetriever produces a grounding context string for a query. It never
// fails; degraded retrieval yields a fallback context.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, query string, documentIDs []string) string
}

type CompletionClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// ChatService owns the conversation/message lifecycle: creation, turns,
// listing, detail, and soft deletion. In grounded mode it asks the retriever
// for document context before calling the completion API.
type ChatService struct {
	conversationRepo ConversationStore
	messageRepo      MessageStore
	userRepo         UserStore
	documentRepo     DocumentLister
	publisher        AsyncMessagePublisher
	historyCache     HistoryCache
	retriever        ContextRetriever
	llmClient        CompletionClient
	prompts          *ai.PromptBuilder
	llmConfig        ai.ChatConfig
	logger           *zap.Logger
}

func NewChatService(
	conversationRepo ConversationStore,
	messageRepo MessageStore,
	userRepo UserStore,
	documentRepo DocumentLister,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	retriever ContextRetriever,
	llmClient CompletionClient,
	llmConfig ai.ChatConfig,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		documentRepo:     documentRepo,
		publisher:        publisher,
		historyCache:     historyCache,
		retriever:        retriever,
		llmClient:        llmClient,
		prompts:          ai.NewPromptBuilder(logger),
		llmConfig:        llmConfig,
		logger:           logger,
	}
}

type CreateConversationInput struct {
	UserID       string
	FirstMessage string
	Mode         string
	DocumentIDs  []string
}

type ConversationResult struct {
	Conversation      model.Conversation `json:"conversation"`
	Message           model.Message      `json:"message"`
	AssistantResponse model.Message      `json:"assistant_response"`
}

// CreateConversation starts a conversation with the first user turn and
// returns the assistant's response. The user row is created on the fly when
// it does not exist yet.
func (s *ChatService) CreateConversation(ctx context.Context, input CreateConversationInput) (*ConversationResult, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.FirstMessage)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	mode := input.Mode
	if mode == "" {
		mode = model.ModeOpenChat
	}
	if mode != model.ModeOpenChat && mode != model.ModeGroundedRAG {
		return nil, ErrInvalidInput
	}
	if mode == model.ModeGroundedRAG && len(input.DocumentIDs) == 0 {
		return nil, ErrDocumentsRequired
	}

	if err := s.ensureUser(input.UserID); err != nil {
		return nil, err
	}

	conversation := &model.Conversation{
		ID:     uuid.NewString(),
		UserID: input.UserID,
		Title:  makeTitle(content),
		Mode:   mode,
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}
	if mode == model.ModeGroundedRAG {
		if err := s.conversationRepo.AttachDocuments(conversation.ID, input.DocumentIDs); err != nil {
			return nil, err
		}
	}

	groundedContext := ""
	if mode == model.ModeGroundedRAG {
		groundedContext = s.retriever.RetrieveContext(ctx, content, input.DocumentIDs)
	}

	userMessage, assistantMessage, err := s.runTurn(ctx, conversation, nil, content, groundedContext)
	if err != nil {
		return nil, err
	}
	conversation.TokenCount += userMessage.Tokens + assistantMessage.Tokens

	return &ConversationResult{
		Conversation:      *conversation,
		Message:           *userMessage,
		AssistantResponse: *assistantMessage,
	}, nil
}

type AddMessageInput struct {
	ConversationID string
	Content        string
}

type MessageResult struct {
	UserMessage            model.Message `json:"user_message"`
	AssistantResponse      model.Message `json:"assistant_response"`
	ConversationTokenCount int           `json:"conversation_token_count"`
}

// AddMessage appends a user turn to an existing conversation and returns the
// assistant's response.
func (s *ChatService) AddMessage(ctx context.Context, input AddMessageInput) (*MessageResult, error) {
	if input.ConversationID == "" {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	conversation, err := s.conversationRepo.GetByID(input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	history, err := s.messageRepo.ListRecentByConversationID(conversation.ID, historyFetchLimit)
	if err != nil {
		return nil, err
	}

	groundedContext := ""
	if conversation.Mode == model.ModeGroundedRAG {
		docIDs, err := s.conversationRepo.ListDocumentIDs(conversation.ID)
		if err != nil {
			return nil, err
		}
		groundedContext = s.retriever.RetrieveContext(ctx, content, docIDs)
	}

	userMessage, assistantMessage, err := s.runTurn(ctx, conversation, history, content, groundedContext)
	if err != nil {
		return nil, err
	}

	return &MessageResult{
		UserMessage:            *userMessage,
		AssistantResponse:      *assistantMessage,
		ConversationTokenCount: conversation.TokenCount + userMessage.Tokens + assistantMessage.Tokens,
	}, nil
}

// runTurn builds the prompt, calls the completion API, claims sequence
// numbers for the turn, and publishes the user+assistant messages for async
// persistence.
func (s *ChatService) runTurn(
	ctx context.Context,
	conversation *model.Conversation,
	history []model.Message,
	content string,
	groundedContext string,
) (*model.Message, *model.Message, error) {
	promptMessages, usedHistory := s.prompts.Build(toChatMessages(history), content, groundedContext)
	s.logger.Info("prompt built",
		zap.String("conversation_id", conversation.ID),
		zap.String("mode", conversation.Mode),
		zap.Int("max_history", usedHistory),
	)

	assistantContent, err := s.llmClient.Complete(ctx, s.llmConfig, promptMessages)
	if err != nil {
		if conversation.Mode == model.ModeGroundedRAG {
			return nil, nil, fmt.Errorf("rag service error: %w", err)
		}
		return nil, nil, fmt.Errorf("llm service error: %w", err)
	}
	assistantContent = strings.TrimSpace(assistantContent)
	if assistantContent == "" {
		assistantContent = "The model returned an empty response."
	}

	sequence, err := s.conversationRepo.ClaimSequences(conversation.ID, 2)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	userMessage := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		Role:           model.RoleUser,
		Content:        content,
		Tokens:         rag.EstimateTokens(content),
		SequenceNumber: sequence,
		CreatedAt:      now,
	}
	assistantMessage := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		Role:           model.RoleAssistant,
		Content:        assistantContent,
		Tokens:         rag.EstimateTokens(assistantContent),
		SequenceNumber: sequence + 1,
		CreatedAt:      now,
	}

	if s.publisher == nil {
		return nil, nil, ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, conversation.ID)
		_ = s.historyCache.DeleteHistory(ctx, conversation.ID)
	}
	if err := s.publisher.Publish(ctx, *userMessage); err != nil {
		return nil, nil, ErrMessageEnqueue
	}
	if err := s.publisher.Publish(ctx, *assistantMessage); err != nil {
		return nil, nil, ErrMessageEnqueue
	}

	if err := s.conversationRepo.AddTokens(conversation.ID, userMessage.Tokens+assistantMessage.Tokens); err != nil {
		return nil, nil, err
	}

	return userMessage, assistantMessage, nil
}

type ConversationListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Mode         string    `json:"mode"`
	MessageCount int64     `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastMessage  string    `json:"last_message"`
}

type ConversationListResult struct {
	Conversations []ConversationListItem `json:"conversations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// ListConversations pages through a user's conversations, newest activity
// first, with a message count and last-message preview per item.
func (s *ChatService) ListConversations(userID string, page, limit int) (*ConversationListResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total, err := s.conversationRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	conversations, err := s.conversationRepo.ListByUserID(userID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ConversationListItem, 0, len(conversations))
	for _, conv := range conversations {
		count, err := s.messageRepo.CountByConversationID(conv.ID)
		if err != nil {
			return nil, err
		}
		preview := ""
		if last, err := s.messageRepo.LastByConversationID(conv.ID); err == nil && last != nil {
			preview = truncateRunes(last.Content, previewMaxChars)
		}
		items = append(items, ConversationListItem{
			ID:           conv.ID,
			Title:        conv.Title,
			Mode:         conv.Mode,
			MessageCount: count,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			LastMessage:  preview,
		})
	}

	return &ConversationListResult{
		Conversations: items,
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

type ConversationDetail struct {
	Conversation model.Conversation `json:"conversation"`
	Messages     []model.Message    `json:"messages"`
	Documents    []model.Document   `json:"documents"`
}

// GetConversation returns the conversation, its full message history in
// sequence order, and the attached documents for grounded conversations.
// History reads go through the Redis cache unless the conversation was
// written to recently.
func (s *ChatService) GetConversation(ctx context.Context, conversationID string) (*ConversationDetail, error) {
	if conversationID == "" {
		return nil, ErrInvalidInput
	}
	conversation, err := s.conversationRepo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := s.loadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var documents []model.Document
	if conversation.Mode == model.ModeGroundedRAG {
		docIDs, err := s.conversationRepo.ListDocumentIDs(conversationID)
		if err != nil {
			return nil, err
		}
		if len(docIDs) > 0 {
			documents, err = s.documentRepo.ListByIDs(docIDs)
			if err != nil {
				return nil, err
			}
		}
	}

	return &ConversationDetail{
		Conversation: *conversation,
		Messages:     messages,
		Documents:    documents,
	}, nil
}

// DeleteConversation soft-deletes the conversation and drops its cached
// history.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return ErrInvalidInput
	}
	conversation, err := s.conversationRepo.GetByID(conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}
	if err := s.conversationRepo.SoftDelete(conversationID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, conversationID)
	}
	return nil
}

func (s *ChatService) loadHistory(ctx context.Context, conversationID string) ([]model.Message, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, conversationID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListByConversationID(conversationID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, conversationID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, conversationID, messages)
		}
	}
	return messages, nil
}

func (s *ChatService) ensureUser(userID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user != nil {
		return nil
	}
	return s.userRepo.Create(&model.User{
		ID:       userID,
		Username: "user_" + userID,
		Email:    userID + "@example.com",
	})
}

func makeTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= titleMaxChars {
		return firstMessage
	}
	return string(runes[:titleMaxChars]) + "..."
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func toChatMessages(messages []model.Message) []ai.ChatMessage {
	out := make([]ai.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = model.RoleUser
		}
		out = append(out, ai.ChatMessage{Role: role, Content: msg.Content})
	}
	return out
}
