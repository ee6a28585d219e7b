package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/ucp-checkout/internal/events"
	"github.com/mmeshcher/ucp-checkout/internal/model"
)

// decodeBody разбирает JSON-тело запроса. Пустое тело допустимо.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Discovery отдаёт профиль /.well-known/ucp.
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	call := h.tracker.Request(r.Context(), events.TypeDiscovery, r.Method, r.URL.Path, "", nil)

	profile := h.service.Profile()
	h.tracker.Response(r.Context(), call, "", http.StatusOK, profile)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, profile)
}

// BusinessInfo возвращает сведения о магазине.
func (h *Handler) BusinessInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.BusinessInfo())
}

// Products возвращает каталог товаров.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	call := h.tracker.Request(r.Context(), events.TypeGetProducts, r.Method, r.URL.Path, "", nil)

	products := h.service.Products(r.Context())
	h.tracker.Response(r.Context(), call, "", http.StatusOK, products)

	writeJSON(w, http.StatusOK, products)
}

// Tokenize выдаёт тестовый платёжный токен.
func (h *Handler) Tokenize(w http.ResponseWriter, r *http.Request) {
	var req model.TokenizeRequest
	if err := decodeBody(r, &req); err != nil {
		call := h.tracker.Request(r.Context(), events.TypeTokenize, r.Method, r.URL.Path, "", nil)
		h.badRequest(w, r, call, "", err)
		return
	}

	// Номер карты не попадает в журнал событий.
	call := h.tracker.Request(r.Context(), events.TypeTokenize, r.Method, r.URL.Path, "", map[string]string{
		"handler_id": req.HandlerID,
	})

	resp, err := h.service.Tokenize(r.Context(), req)
	if err != nil {
		h.fail(w, r, call, "", err)
		return
	}

	h.tracker.Response(r.Context(), call, "", http.StatusOK, resp)
	writeJSON(w, http.StatusOK, resp)
}

// CreateCheckout создаёт сессию оформления заказа.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		call := h.tracker.Request(r.Context(), events.TypeCreateCheckout, r.Method, r.URL.Path, "", nil)
		h.badRequest(w, r, call, "", err)
		return
	}

	call := h.tracker.Request(r.Context(), events.TypeCreateCheckout, r.Method, r.URL.Path, "", req)

	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, call, "", err)
		return
	}

	h.tracker.Response(r.Context(), call, view.ID, http.StatusCreated, view)
	writeJSON(w, http.StatusCreated, view)
}

// GetCheckout возвращает текущее состояние сессии.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	call := h.tracker.Request(r.Context(), events.TypeGetCheckout, r.Method, r.URL.Path, id, nil)

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, call, id, err)
		return
	}

	h.tracker.Response(r.Context(), call, id, http.StatusOK, view)
	writeJSON(w, http.StatusOK, view)
}

// UpdateCheckout полностью заменяет состояние сессии.
func (h *Handler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		call := h.tracker.Request(r.Context(), events.TypeUpdateCheckout, r.Method, r.URL.Path, id, nil)
		h.badRequest(w, r, call, id, err)
		return
	}

	call := h.tracker.Request(r.Context(), events.TypeUpdateCheckout, r.Method, r.URL.Path, id, req)

	view, err := h.service.Replace(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, call, id, err)
		return
	}

	h.tracker.Response(r.Context(), call, id, http.StatusOK, view)
	writeJSON(w, http.StatusOK, view)
}

// CompleteCheckout завершает сессию с переданными платёжными данными.
func (h *Handler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.CompleteRequest
	if err := decodeBody(r, &req); err != nil {
		call := h.tracker.Request(r.Context(), events.TypeCompleteCheckout, r.Method, r.URL.Path, id, nil)
		h.badRequest(w, r, call, id, err)
		return
	}

	call := h.tracker.Request(r.Context(), events.TypeCompleteCheckout, r.Method, r.URL.Path, id, req)

	view, err := h.service.Complete(r.Context(), id, req.Payment)
	if err != nil {
		h.fail(w, r, call, id, err)
		return
	}

	h.tracker.Response(r.Context(), call, id, http.StatusOK, view)
	writeJSON(w, http.StatusOK, view)
}

// CancelCheckout отменяет сессию.
func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	call := h.tracker.Request(r.Context(), events.TypeCancelCheckout, r.Method, r.URL.Path, id, nil)

	view, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.fail(w, r, call, id, err)
		return
	}

	h.tracker.Response(r.Context(), call, id, http.StatusOK, view)
	writeJSON(w, http.StatusOK, view)
}
