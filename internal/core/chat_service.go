package core

import (
	"context"
	"fmt"
	"log"

	"yogamitra.app/backend/internal/session"
	"yogamitra.app/backend/internal/store"
)

const (
	moderationDeflection = "Please keep the conversation respectful."
	missingKeyMessage    = "Error: Groq API key is missing."
)

// ChatRecorder is the persistence dependency of the chat service.
type ChatRecorder interface {
	CreateChatRecord(rec *store.ChatRecord) error
}

// ChatService runs the conversational pipeline: moderation, window update,
// provider call, optional persistence.
type ChatService struct {
	provider ChatProvider
	filter   *ModerationFilter
	recorder ChatRecorder
}

// NewChatService wires the chat pipeline. provider may be nil when no API
// key is configured; recorder may be nil to disable persistence.
func NewChatService(provider ChatProvider, filter *ModerationFilter, recorder ChatRecorder) *ChatService {
	return &ChatService{
		provider: provider,
		filter:   filter,
		recorder: recorder,
	}
}

// Send produces the assistant reply for userText. Errors share the return
// channel with assistant output: configuration and transport failures come
// back as descriptive strings shown to the end user in place of a reply.
func (s *ChatService) Send(ctx context.Context, sess *session.Session, userText string) string {
	if s.provider == nil {
		return missingKeyMessage
	}

	// Moderation runs before the window is touched and before any remote
	// call: a blocked message leaves no trace in the conversation.
	if s.filter.IsInappropriate(userText) {
		return moderationDeflection
	}

	sess.Append(session.Turn{Role: "user", Content: userText})

	window := sess.Window()
	messages := make([]ChatMessage, 0, len(window)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: chatSystemPrompt})
	for _, turn := range window {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		return fmt.Sprintf("Error: Failed to connect to Groq API - %v", err)
	}

	sess.Append(session.Turn{Role: "assistant", Content: reply})

	// Persistence must never fail the user-visible response.
	if sess.LoggedIn() && s.recorder != nil {
		rec := store.ChatRecord{
			UserID:   sess.UserID(),
			Message:  userText,
			Response: reply,
		}
		if err := s.recorder.CreateChatRecord(&rec); err != nil {
			log.Printf("Error saving chat history for user %d: %v", rec.UserID, err)
		}
	}

	return reply
}
