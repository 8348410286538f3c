package httptransport

import (
	"net/http"

	"authchain/internal/inventory"
	id "authchain/pkg/domain"
	"authchain/pkg/platform/httputil"
)

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[addProductRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	code, err := id.ParseProductCode(req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	product, err := h.stock.Add(r.Context(), inventory.AddInput{
		Code:           code,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ExpiryDate:     req.ExpiryDate,
		BatchID:        req.BatchID,
		Quantity:       req.Quantity,
		ProductionDate: req.ProductionDate,
		BatchLabel:     req.BatchLabel,
		ImageRef:       req.ImageRef,
	})
	h.observe(r, "addToInventory", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	product, err := h.stock.Get(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}
