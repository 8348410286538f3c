package httptransport

import (
	"net/http"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/httputil"
)

func (h *Handler) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[registerAdminRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	target, err := id.ParseAccount(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.registry.RegisterAdmin(r.Context(), target)
	h.observe(r, "registerAdmin", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[assignRoleRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	target, err := id.ParseAccount(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := id.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.registry.AssignRole(r.Context(), target, role)
	h.observe(r, "assignUserRoles", err)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"account": target.String(),
		"role":    role.String(),
	})
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := h.registry.Role(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"account": account.String(),
		"role":    role.String(),
	})
}

func (h *Handler) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.registry.Admin(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
