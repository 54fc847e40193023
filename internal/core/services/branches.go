// internal/core/services/branches.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// SuperuserID is the identity ID carried by the built-in administrator.
const SuperuserID = "admin"

// BranchService handles the branch directory and credential checks.
// A configured superuser always authenticates regardless of the directory
// contents. Credentials are bcrypt-hashed; plaintext never reaches storage.
type BranchService struct {
	repo   ports.BranchRepository
	logger *slog.Logger

	adminUsername     string
	adminPasswordHash []byte
	bcryptCost        int
}

// Statically assert that *BranchService implements the BranchService port.
var _ ports.BranchService = (*BranchService)(nil)

// NewBranchService creates a new branch service. The admin password is
// hashed once up front so authentication never touches the plaintext again.
func NewBranchService(repo ports.BranchRepository, adminUsername, adminPassword string, bcryptCost int, logger *slog.Logger) (*BranchService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin credentials: %w", err)
	}
	return &BranchService{
		repo:              repo,
		logger:            logger.With(slog.String("service", "branches")),
		adminUsername:     adminUsername,
		adminPasswordHash: hash,
		bcryptCost:        bcryptCost,
	}, nil
}

// Add registers a new branch, hashing its login password.
func (s *BranchService) Add(ctx context.Context, branch *domain.Branch, password string) error {
	if err := branch.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if password == "" {
		return fmt.Errorf("%w: branch password is required", domain.ErrInvalidOperation)
	}
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash branch credentials: %w", err)
	}
	branch.PasswordHash = string(hash)

	if err := s.repo.Add(ctx, *branch); err != nil {
		return fmt.Errorf("failed to add branch: %w", err)
	}

	s.logger.InfoContext(ctx, "branch added",
		slog.String("branch_id", branch.ID),
		slog.String("name", branch.Name))

	return nil
}

// Update replaces the branch with the given ID wholesale. A renamed branch
// keeps its ID, so inventory stays attached; historical sales keep the name
// snapshot they recorded at checkout. An empty password keeps the existing
// credential.
func (s *BranchService) Update(ctx context.Context, id string, branch domain.Branch, password string) error {
	if err := branch.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve branch: %w", err)
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash branch credentials: %w", err)
		}
		branch.PasswordHash = string(hash)
	} else {
		branch.PasswordHash = current.PasswordHash
	}

	if err := s.repo.Update(ctx, id, branch); err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	s.logger.InfoContext(ctx, "branch updated",
		slog.String("branch_id", id),
		slog.String("name", branch.Name))

	return nil
}

// List returns all registered branches.
func (s *BranchService) List(ctx context.Context) ([]domain.Branch, error) {
	branches, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// Authenticate checks the credentials against the superuser first, then the
// branch directory. A declined login returns (nil, nil); it is a result,
// not an error.
func (s *BranchService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == s.adminUsername {
		if bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password)) == nil {
			return &domain.Identity{ID: SuperuserID, Name: "Admin General", Role: domain.RoleAdmin}, nil
		}
		s.logger.WarnContext(ctx, "superuser login declined")
		return nil, nil
	}

	branch, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "login declined, unknown username",
				slog.String("username", username))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(branch.PasswordHash), []byte(password)) != nil {
		s.logger.WarnContext(ctx, "login declined, bad password",
			slog.String("branch_id", branch.ID))
		return nil, nil
	}

	return &domain.Identity{ID: branch.ID, Name: branch.Name, Role: domain.RoleCashier}, nil
}
