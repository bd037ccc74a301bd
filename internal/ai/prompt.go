package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

const (
	// MaxContextTokens is the hard estimated-token ceiling for an open-chat
	// prompt before history is reduced.
	MaxContextTokens = 7000
	// DefaultMaxHistory is the number of history turns kept in open chat;
	// GroundedMaxHistory applies in grounded mode, where retrieved context
	// occupies part of the budget.
	DefaultMaxHistory  = 20
	GroundedMaxHistory = 10
	// reducedMaxHistory is used for the single rebuild when an open-chat
	// prompt exceeds MaxContextTokens.
	reducedMaxHistory = 10
)

// SystemPrompt is the base persona for every conversation.
const SystemPrompt = `You are BOT GPT, a helpful and intelligent AI assistant.
You provide clear, accurate, and concise responses. When you don't know something,
you admit it honestly. You are friendly, professional, and aim to be as helpful as possible.`

const groundedPromptFormat = `%s

You have access to the following information from the user's documents:

CONTEXT:
%s

Please answer the user's question based primarily on this context. If the answer
is not in the context, you may use your general knowledge but indicate that the
information is not from the provided documents.`

// PromptBuilder assembles the model-facing message list: one system message,
// the most recent history turns, then the new user message.
type PromptBuilder struct {
	systemPrompt string
	maxTokens    int
	logger       *zap.Logger
}

func NewPromptBuilder(logger *zap.Logger) *PromptBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptBuilder{
		systemPrompt: SystemPrompt,
		maxTokens:    MaxContextTokens,
		logger:       logger,
	}
}

// Build returns the assembled messages and the realized history limit. In
// grounded mode (groundedContext != "") the retrieved context is embedded in
// the system message and history is capped at GroundedMaxHistory. In open
// mode, if the estimated total exceeds the token ceiling the prompt is
// rebuilt once with a reduced history; there is no further shrinking, so the
// reduced prompt can still exceed the ceiling.
func (b *PromptBuilder) Build(history []ChatMessage, userInput, groundedContext string) ([]ChatMessage, int) {
	if groundedContext != "" {
		system := fmt.Sprintf(groundedPromptFormat, b.systemPrompt, groundedContext)
		messages := b.assemble(system, history, userInput, GroundedMaxHistory)
		b.logger.Info("grounded prompt assembled",
			zap.Int("estimated_tokens", estimateMessages(messages)),
			zap.Int("max_history", GroundedMaxHistory),
		)
		return messages, GroundedMaxHistory
	}

	maxHistory := DefaultMaxHistory
	messages := b.assemble(b.systemPrompt, history, userInput, maxHistory)
	if total := estimateMessages(messages); total > b.maxTokens {
		b.logger.Warn("prompt exceeds token ceiling, reducing history",
			zap.Int("estimated_tokens", total),
			zap.Int("ceiling", b.maxTokens),
		)
		maxHistory = reducedMaxHistory
		messages = b.assemble(b.systemPrompt, history, userInput, maxHistory)
	}
	return messages, maxHistory
}

func (b *PromptBuilder) assemble(system string, history []ChatMessage, userInput string, maxHistory int) []ChatMessage {
	recent := history
	if len(recent) > maxHistory {
		recent = recent[len(recent)-maxHistory:]
	}

	messages := make([]ChatMessage, 0, len(recent)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: system})
	messages = append(messages, recent...)
	messages = append(messages, ChatMessage{Role: "user", Content: userInput})
	return messages
}

func estimateMessages(messages []ChatMessage) int {
	total := 0
	for _, msg := range messages {
		total += rag.EstimateTokens(msg.Content)
	}
	return total
}
