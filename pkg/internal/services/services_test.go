package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	localCache "github.com/wavelet-im/wavelet/pkg/internal/cache"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSourceCounter int64

// testDB swaps the global source for a fresh in-memory database for the
// duration of one test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	if localCache.S == nil {
		require.NoError(t, localCache.NewStore())
	}

	dsn := fmt.Sprintf("file:wavelet_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testSourceCounter, 1))
	source, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))

	previous := database.C
	database.C = source
	t.Cleanup(func() { database.C = previous })

	return source
}

func seedAccount(t *testing.T, name string) models.Account {
	t.Helper()

	account := models.Account{Name: name, Nick: name}
	require.NoError(t, database.C.Create(&account).Error)
	return account
}
