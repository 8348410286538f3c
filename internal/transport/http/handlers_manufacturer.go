package httptransport

import (
	"net/http"

	"authchain/internal/manufacturer"
	"authchain/pkg/platform/httputil"
)

func (h *Handler) handleRegisterManufacturer(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[registerManufacturerRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.dir.Register(r.Context(), manufacturer.RegisterInput{
		BrandName:          req.BrandName,
		RegulatoryID:       req.RegulatoryID,
		RegistrationNumber: req.RegistrationNumber,
		YearOfRegistration: req.YearOfRegistration,
		Location:           req.Location,
	})
	h.observe(r, "registerManufacturer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, profile)
}

func (h *Handler) handleVerifyManufacturer(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.dir.Verify(r.Context(), account)
	h.observe(r, "verifyManufacturer", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleGetManufacturer(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	profile, err := h.dir.Get(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}
