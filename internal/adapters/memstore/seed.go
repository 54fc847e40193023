// internal/adapters/memstore/seed.go
package memstore

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
)

// LoadDemoData populates the store with the fixed demo dataset: three
// branches and the starting catalog of the HelloKitty branch. Branch
// passwords are bcrypt-hashed at load time with the given cost.
func (s *Store) LoadDemoData(bcryptCost int) error {
	seedBranches := []struct {
		branch   domain.Branch
		password string
	}{
		{domain.Branch{ID: "1", Name: "HelloKitty", Manager: "María López", Address: "Av. Principal #123", Username: "caja_hellokitty"}, "123"},
		{domain.Branch{ID: "2", Name: "Norte", Manager: "Carlos Ruiz", Address: "Plaza Norte L-4", Username: "caja_norte"}, "123"},
		{domain.Branch{ID: "3", Name: "Sur", Manager: "Ana Silva", Address: "Blvd. Sur #88", Username: "caja_sur"}, "123"},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.branches = s.branches[:0]
	for _, sb := range seedBranches {
		hash, err := bcrypt.GenerateFromPassword([]byte(sb.password), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed credentials: %w", err)
		}
		sb.branch.PasswordHash = string(hash)
		s.branches = append(s.branches, sb.branch)
	}

	s.inventory = []domain.InventoryItem{
		{Product: domain.Product{ID: 1, Name: "Hojas Blancas Carta", Category: domain.CategoryStationery, Price: decimal.NewFromFloat(85.0)}, Stock: 150, MinStock: 20, BranchID: "1"},
		{Product: domain.Product{ID: 2, Name: "Cuaderno Profesional", Category: domain.CategorySchool, Price: decimal.NewFromFloat(35.5)}, Stock: 40, MinStock: 15, BranchID: "1"},
		{Product: domain.Product{ID: 3, Name: "Lápiz HB Mirado 2", Category: domain.CategoryWriting, Price: decimal.NewFromFloat(6.0)}, Stock: 100, MinStock: 10, BranchID: "1"},
	}

	s.sales = nil

	s.logger.Info("demo data loaded",
		slog.Int("branches", len(s.branches)),
		slog.Int("inventory_items", len(s.inventory)))

	return nil
}
