// internal/handlers/branches.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// BranchHandler handles branch directory HTTP requests. All routes are
// gated to the admin role by the router.
type BranchHandler struct {
	service ports.BranchService
	logger  *slog.Logger
}

// NewBranchHandler creates a new branch handler.
func NewBranchHandler(service ports.BranchService, logger *slog.Logger) *BranchHandler {
	return &BranchHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "branches")),
	}
}

// ListBranches handles GET /api/v1/branches.
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branches, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list branches",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list branches")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// CreateBranch handles POST /api/v1/branches.
func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	branch := req.ToDomain()
	if err := h.service.Add(ctx, branch, req.Password); err != nil {
		h.logger.ErrorContext(ctx, "failed to create branch",
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, branch)
}

// UpdateBranch handles PUT /api/v1/branches/{id}. The stored branch is
// replaced wholesale; historical sales keep their recorded name snapshot.
func (h *BranchHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req BranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	branch := req.ToDomain()
	if err := h.service.Update(ctx, id, *branch, req.Password); err != nil {
		h.logger.ErrorContext(ctx, "failed to update branch",
			slog.String("branch_id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Branch updated successfully", "id": id})
}

// BranchRequest represents the request body for creating or updating a
// branch. Password is optional on update (empty keeps the current one).
type BranchRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Manager  string `json:"manager"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// Validate validates the branch request.
func (r *BranchRequest) Validate(requirePassword bool) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if requirePassword && r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ToDomain converts the request to a domain model.
func (r *BranchRequest) ToDomain() *domain.Branch {
	return &domain.Branch{
		ID:       r.ID,
		Name:     r.Name,
		Manager:  r.Manager,
		Address:  r.Address,
		Username: r.Username,
	}
}
