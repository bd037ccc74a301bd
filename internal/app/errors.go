package app

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
	ErrDocumentsRequired    = errors.New("document_ids required for grounded_rag mode")
	ErrMessageEnqueue       = errors.New("message enqueue failed")
)
