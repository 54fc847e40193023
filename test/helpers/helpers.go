// test/helpers/helpers.go
package helpers

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/davalosm/papeleria-pos/internal/adapters/memstore"
	"github.com/davalosm/papeleria-pos/internal/core/domain"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SeededStore returns an in-memory store preloaded with the demo dataset.
// Branch passwords are hashed with bcrypt.MinCost to keep tests fast.
func SeededStore(t *testing.T) *memstore.Store {
	t.Helper()

	store := memstore.New(TestLogger())
	require.NoError(t, store.LoadDemoData(bcrypt.MinCost))
	return store
}

// EmptyStore returns a fresh in-memory store with no data.
func EmptyStore(t *testing.T) *memstore.Store {
	t.Helper()
	return memstore.New(TestLogger())
}

// FixedClock returns a clock function frozen at the given local time.
func FixedClock(year int, month time.Month, day, hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, hour, min, 0, 0, time.Local)
	}
}

// SampleCart builds a single-line cart for the given product.
func SampleCart(productID int64, name string, price string, quantity int) []domain.CartLine {
	return []domain.CartLine{
		{
			ProductID: productID,
			Name:      name,
			Category:  domain.CategoryStationery,
			Price:     decimal.RequireFromString(price),
			Quantity:  quantity,
		},
	}
}

// SampleItem builds an inventory item for tests.
func SampleItem(id int64, name string, price string, stock, minStock int, branchID string) *domain.InventoryItem {
	return &domain.InventoryItem{
		Product: domain.Product{
			ID:       id,
			Name:     name,
			Category: domain.CategoryStationery,
			Price:    decimal.RequireFromString(price),
		},
		Stock:    stock,
		MinStock: minStock,
		BranchID: branchID,
	}
}

// AddBranch inserts a branch with a bcrypt.MinCost password hash.
func AddBranch(t *testing.T, store *memstore.Store, id, name, username, password string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, store.Branches().Add(context.Background(), domain.Branch{
		ID:           id,
		Name:         name,
		Manager:      "Gerente " + name,
		Address:      "Av. Principal 100",
		Username:     username,
		PasswordHash: string(hash),
	}))
}
