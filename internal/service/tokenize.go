package service

import (
	"context"

	"github.com/mmeshcher/ucp-checkout/internal/model"
	"github.com/mmeshcher/ucp-checkout/internal/validation"
)

// TokenTypeToken это тип учётных данных, выдаваемых тестовым токенизатором.
const TokenTypeToken = "TOKEN"

// Tokenize выдаёт тестовый платёжный токен.
// Переданный номер карты должен проходить проверку по алгоритму Луна.
func (s *Service) Tokenize(_ context.Context, req model.TokenizeRequest) (model.TokenizeResponse, error) {
	if req.Card != nil && req.Card.Number != "" && !validation.IsValidCardNumber(req.Card.Number) {
		return model.TokenizeResponse{}, ErrInvalidCard
	}

	return model.TokenizeResponse{
		Token:     newID("tok_", 16),
		Type:      TokenTypeToken,
		ExpiresAt: s.now().Add(tokenTTL),
	}, nil
}
