package httptransport

import (
	"net/http"

	"authchain/internal/custody"
	id "authchain/pkg/domain"
	"authchain/pkg/platform/httputil"
)

func (h *Handler) handleRegisterRetailer(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[registerRetailerRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.custody.RegisterRetailer(r.Context(), req.BrandName)
	h.observe(r, "registerRetailer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, profile)
}

func (h *Handler) handleRegisterPersonnel(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[registerPersonnelRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	account, err := id.ParseAccount(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.custody.RegisterLogisticsPersonnel(r.Context(), custody.PersonnelInput{
		Account: account,
		UID:     req.UID,
		Brand:   req.Brand,
	})
	h.observe(r, "registerLogisticsPersonnel", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.Decode[transferRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	retailer, err := id.ParseAccount(req.Retailer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Handler is optional audit metadata.
	var handler id.Account
	if req.Handler != "" {
		handler, err = id.ParseAccount(req.Handler)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	transfer, err := h.custody.TransferToRetailer(r.Context(), code, retailer, req.Quantity, handler)
	h.observe(r, "transferToRetailer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, transfer)
}

func (h *Handler) handleGetRetailer(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	profile, err := h.custody.Retailer(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleGetPersonnel(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.custody.Personnel(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	transfers, err := h.custody.Transfers(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}
