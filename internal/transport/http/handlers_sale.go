package httptransport

import (
	"net/http"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/httputil"
)

func (h *Handler) handleRegisterConsumer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sales.RegisterConsumer(r.Context())
	h.observe(r, "registerConsumer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, profile)
}

func (h *Handler) handleSell(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.Decode[sellRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consumer, err := id.ParseAccount(req.Consumer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.sales.SellToConsumer(r.Context(), code, consumer, req.Quantity)
	h.observe(r, "sellToConsumer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleGetConsumer(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	profile, err := h.sales.Consumer(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleGetSale(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consumer, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.sales.Purchase(r.Context(), code, consumer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	records, err := h.sales.Purchases(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sales": records})
}
