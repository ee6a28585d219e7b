// Package handler содержит HTTP-обработчики API сервиса оформления заказов UCP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/ucp-checkout/internal/events"
	"github.com/mmeshcher/ucp-checkout/internal/model"
	"github.com/mmeshcher/ucp-checkout/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Create(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutView, error)
	Get(ctx context.Context, id string) (*model.CheckoutView, error)
	Replace(ctx context.Context, id string, req model.CheckoutRequest) (*model.CheckoutView, error)
	Complete(ctx context.Context, id string, payment *model.Payment) (*model.CheckoutView, error)
	Cancel(ctx context.Context, id string) (*model.CheckoutView, error)
	Products(ctx context.Context) model.ProductList
	Tokenize(ctx context.Context, req model.TokenizeRequest) (model.TokenizeResponse, error)
	Profile() model.Profile
	BusinessInfo() model.BusinessInfo
}

// EventLog это журнал последних событий для визуализатора.
type EventLog interface {
	Events(limit int) []events.Event
	Clear()
	Subscribe(buffer int) (<-chan events.Event, func())
}

// Handler реализует HTTP-обработчики API сервиса.
type Handler struct {
	service Service
	logger  *zap.Logger
	tracker *events.Tracker
	log     EventLog
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, tracker *events.Tracker, log EventLog) *Handler {
	if tracker == nil {
		tracker = events.NewTracker(nil)
	}
	return &Handler{
		service: s,
		logger:  logger,
		tracker: tracker,
		log:     log,
	}
}

// errorResponse это тело ответа с ошибкой в формате сообщений протокола.
type errorResponse struct {
	Status   model.CheckoutStatus `json:"status"`
	Messages []model.Message      `json:"messages"`
}

func newErrorResponse(code, content string, severity model.MessageSeverity) errorResponse {
	return errorResponse{
		Status: model.StatusRequiresEscalation,
		Messages: []model.Message{{
			Type:     model.MessageError,
			Code:     code,
			Content:  content,
			Severity: severity,
		}},
	}
}

// classify сопоставляет ошибку сервиса HTTP-статусу и коду сообщения.
func classify(err error) (int, string, model.MessageSeverity) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", model.SeverityRecoverable
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusBadRequest, "product_not_found", model.SeverityRecoverable
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity", model.SeverityRecoverable
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "invalid_state", model.SeverityRecoverable
	case errors.Is(err, service.ErrPaymentRequired):
		return http.StatusPaymentRequired, "payment_required", model.SeverityRequiresBuyerInput
	case errors.Is(err, service.ErrNotReady):
		return http.StatusConflict, "not_ready_for_complete", model.SeverityRecoverable
	case errors.Is(err, service.ErrInvalidCard):
		return http.StatusUnprocessableEntity, "invalid_card", model.SeverityRequiresBuyerInput
	default:
		return http.StatusInternalServerError, "internal_error", model.SeverityRequiresBuyerInput
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail пишет ответ с ошибкой и фиксирует событие ответа.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, call *events.Call, sessionID string, err error) {
	status, code, severity := classify(err)
	content := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("checkout operation error",
			zap.Error(err),
			zap.String("session", sessionID),
			zap.String("path", r.URL.Path),
		)
		content = http.StatusText(http.StatusInternalServerError)
	}

	resp := newErrorResponse(code, content, severity)
	h.tracker.Response(r.Context(), call, sessionID, status, resp)
	if status >= http.StatusInternalServerError {
		h.tracker.Error(r.Context(), call, sessionID, status, resp)
	}
	writeJSON(w, status, resp)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, call *events.Call, sessionID string, err error) {
	resp := newErrorResponse("invalid_request", "invalid request body: "+err.Error(), model.SeverityRecoverable)
	h.tracker.Response(r.Context(), call, sessionID, http.StatusBadRequest, resp)
	writeJSON(w, http.StatusBadRequest, resp)
}

// Health сообщает о работоспособности сервиса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
