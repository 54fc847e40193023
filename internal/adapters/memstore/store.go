// internal/adapters/memstore/store.go
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// Store holds the whole POS state in memory: branch directory, stock-keeping
// records and the sales ledger. It is constructed once at process start and
// passed to every consumer; state lives exactly as long as the process.
// A single RWMutex guards all three collections so each repository call is
// atomic with respect to the others.
type Store struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	branches  []domain.Branch
	inventory []domain.InventoryItem
	sales     []domain.Sale // most-recent-first
}

// New creates an empty store.
func New(logger *slog.Logger) *Store {
	return &Store{
		logger: logger.With(slog.String("component", "memstore")),
	}
}

// Branches returns the branch directory view of the store.
func (s *Store) Branches() ports.BranchRepository { return &branchRepo{s} }

// Inventory returns the stock-keeping view of the store.
func (s *Store) Inventory() ports.InventoryRepository { return &inventoryRepo{s} }

// Sales returns the ledger view of the store.
func (s *Store) Sales() ports.SaleRepository { return &saleRepo{s} }

// Counts returns the size of each collection, for health reporting.
func (s *Store) Counts() (branches, inventory, sales int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.branches), len(s.inventory), len(s.sales)
}

// branch directory

type branchRepo struct{ s *Store }

func (r *branchRepo) Add(_ context.Context, branch domain.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.branches {
		if r.s.branches[i].ID == branch.ID {
			return fmt.Errorf("%w: branch id %s already exists", domain.ErrInvalidOperation, branch.ID)
		}
		// Usernames resolve to exactly one branch at login.
		if strings.EqualFold(r.s.branches[i].Username, branch.Username) {
			return fmt.Errorf("%w: username %s already taken", domain.ErrInvalidOperation, branch.Username)
		}
	}
	r.s.branches = append(r.s.branches, branch)
	return nil
}

func (r *branchRepo) Update(_ context.Context, id string, branch domain.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.branches {
		if r.s.branches[i].ID != id && strings.EqualFold(r.s.branches[i].Username, branch.Username) {
			return fmt.Errorf("%w: username %s already taken", domain.ErrInvalidOperation, branch.Username)
		}
	}
	for i := range r.s.branches {
		if r.s.branches[i].ID == id {
			branch.ID = id
			r.s.branches[i] = branch
			return nil
		}
	}
	return fmt.Errorf("%w: branch %s", domain.ErrNotFound, id)
}

func (r *branchRepo) FindByID(_ context.Context, id string) (*domain.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.branches {
		if r.s.branches[i].ID == id {
			b := r.s.branches[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: branch %s", domain.ErrNotFound, id)
}

func (r *branchRepo) FindByUsername(_ context.Context, username string) (*domain.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.branches {
		if strings.EqualFold(r.s.branches[i].Username, username) {
			b := r.s.branches[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: username %s", domain.ErrNotFound, username)
}

func (r *branchRepo) List(_ context.Context) ([]domain.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Branch, len(r.s.branches))
	copy(out, r.s.branches)
	return out, nil
}

// stock-keeping records

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) Add(_ context.Context, item domain.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.inventory {
		if r.s.inventory[i].ID == item.ID && r.s.inventory[i].BranchID == item.BranchID {
			return fmt.Errorf("%w: product %d already tracked in branch %s",
				domain.ErrInvalidOperation, item.ID, item.BranchID)
		}
	}
	r.s.inventory = append(r.s.inventory, item)
	return nil
}

func (r *inventoryRepo) NextProductID(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var max int64
	for i := range r.s.inventory {
		if r.s.inventory[i].ID > max {
			max = r.s.inventory[i].ID
		}
	}
	return max + 1, nil
}

func (r *inventoryRepo) FindByProduct(_ context.Context, productID int64, branchID string) (*domain.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.inventory {
		if r.s.inventory[i].ID == productID && r.s.inventory[i].BranchID == branchID {
			item := r.s.inventory[i]
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d in branch %s", domain.ErrNotFound, productID, branchID)
}

func (r *inventoryRepo) AdjustStock(_ context.Context, productID int64, branchID string, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.inventory {
		if r.s.inventory[i].ID == productID && r.s.inventory[i].BranchID == branchID {
			r.s.inventory[i].Stock += delta
			return r.s.inventory[i].Stock, nil
		}
	}
	return 0, fmt.Errorf("%w: product %d in branch %s", domain.ErrNotFound, productID, branchID)
}

func (r *inventoryRepo) List(_ context.Context) ([]domain.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.InventoryItem, len(r.s.inventory))
	copy(out, r.s.inventory)
	return out, nil
}

// sales ledger

type saleRepo struct{ s *Store }

func (r *saleRepo) Append(_ context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Ticket IDs are a gapless sequence over the ledger size, assigned
	// under the same lock as the insert.
	sale.ID = fmt.Sprintf("TKT-%05d", len(r.s.sales)+1)
	r.s.sales = append([]domain.Sale{*sale}, r.s.sales...)
	return nil
}

func (r *saleRepo) List(_ context.Context) ([]domain.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Sale, len(r.s.sales))
	copy(out, r.s.sales)
	return out, nil
}

func (r *saleRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.sales), nil
}
