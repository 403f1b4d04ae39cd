package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/llm"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	tutorMaxTokens   = 1024
	tutorTemperature = 0.7
	chatHistoryLimit = 50
)

var tutorPersona = map[llm.Language]string{
	llm.Russian: "Ты дружелюбный наставник, который помогает школьникам готовиться к ЕНТ. " +
		"Объясняй кратко и по шагам. Отвечай только на русском языке.",
	llm.Kazakh: "Сен ҰБТ-ға дайындалып жүрген оқушыларға көмектесетін мейірімді тәлімгерсің. " +
		"Қысқа әрі қадамдап түсіндір. Тек қазақ тілінде жауап бер.",
}

type TutorService interface {
	// Chat always answers: when no provider responds the reply is a canned
	// phrase in the requested language with Fallback set.
	Chat(ctx context.Context, userID uint, req dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, userID uint) ([]dto.ChatMessageDTO, error)
}

type tutorService struct {
	chain    *llm.Chain
	chatRepo repository.ChatRepository
}

func NewTutorService(chain *llm.Chain, chatRepo repository.ChatRepository) TutorService {
	return &tutorService{chain: chain, chatRepo: chatRepo}
}

func (s *tutorService) Chat(ctx context.Context, userID uint, req dto.ChatRequest) (*dto.ChatResponse, error) {
	lang := llm.Language(req.Language)
	if !lang.Valid() {
		return nil, apperror.Validation("language", "unsupported language %q", req.Language)
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperror.Validation("message", "is required")
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	for _, h := range req.History {
		messages = append(messages, llm.Message{Role: llm.Role(h.Role), Content: h.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	reply, err := s.chain.Ask(ctx, llm.Request{
		System:      tutorPersona[lang],
		Messages:    messages,
		MaxTokens:   tutorMaxTokens,
		Temperature: tutorTemperature,
	}, lang)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Str("language", string(lang)).Msg("All tutor providers failed, answering with fallback")
	}

	record := &model.ChatMessage{
		UserID:   userID,
		Language: string(lang),
		Message:  message,
		Reply:    reply.Text,
		Provider: reply.Provider,
		Fallback: reply.Fallback,
	}
	if err := s.chatRepo.Create(ctx, record); err != nil {
		// The reply is still useful to the caller.
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to store chat message")
	}

	return &dto.ChatResponse{Reply: reply.Text, Provider: reply.Provider, Fallback: reply.Fallback}, nil
}

func (s *tutorService) History(ctx context.Context, userID uint) ([]dto.ChatMessageDTO, error) {
	msgs, err := s.chatRepo.FindRecentByUser(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching chat history: %w", err)
	}
	out := make([]dto.ChatMessageDTO, 0, len(msgs))
	for i := range msgs {
		var m dto.ChatMessageDTO
		if err := copier.Copy(&m, &msgs[i]); err != nil {
			return nil, fmt.Errorf("error preparing chat history: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}
