// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/haneul-games/wordrush/internal/adapters/kv"
	"github.com/haneul-games/wordrush/internal/domain/types"
)

// AdminDependencies defines the interface for administrative operations.
type AdminDependencies interface {
	ClearLegacy(ctx context.Context) ([]types.ClearDetail, error)
}

// AdminHandler handles administrative maintenance requests.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type clearResponse struct {
	Message string              `json:"message"`
	Details []types.ClearDetail `json:"details"`
}

// HandleClearLegacy handles GET /api/admin/clear-legacy requests. Deletes
// the fixed list of pre-scope keys and reports per-key outcomes.
func (h *AdminHandler) HandleClearLegacy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		return
	}
	details, err := h.deps.ClearLegacy(r.Context())
	if err != nil {
		if errors.Is(err, kv.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, codeStoreNotConfig)
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternalError)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{
		Message: "Successfully cleared legacy score keys.",
		Details: details,
	})
}
