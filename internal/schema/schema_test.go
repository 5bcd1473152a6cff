package schema

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestMigrateFreshStore(t *testing.T) {
	m := &Migrator{DB: initTestDB(t)}
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))

	version, err := m.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, version)

	var products []models.Producto
	require.NoError(t, m.DB.Find(&products).Error)
	require.Len(t, products, len(SeedProducts()))
	require.Equal(t, "Headset Gamer HyperX Cloud Alpha", products[0].Nombre)
	require.Equal(t, 99990, products[0].Precio)
	require.Equal(t, 3, products[0].Stock)
}

func TestMigrateIsIdempotent(t *testing.T) {
	m := &Migrator{DB: initTestDB(t)}
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	require.NoError(t, m.Migrate(ctx))

	var products []models.Producto
	require.NoError(t, m.DB.Find(&products).Error)
	require.Len(t, products, len(SeedProducts()))
}

func TestMigrateVersionAhead(t *testing.T) {
	m := &Migrator{DB: initTestDB(t)}
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	require.NoError(t, m.DB.Create(&models.SchemaMigration{Version: 99}).Error)

	require.ErrorIs(t, m.Migrate(ctx), ErrVersionAhead)
}

func TestResetDiscardsEverythingButSeed(t *testing.T) {
	m := &Migrator{DB: initTestDB(t)}
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))

	require.NoError(t, m.DB.Create(&models.User{Username: "gamer", PasswordHash: "x", Role: "user"}).Error)
	require.NoError(t, m.DB.Create(&models.Producto{Nombre: "Custom", Precio: 1}).Error)
	require.NoError(t, m.DB.Create(&models.CartItem{UserID: 1, ProductID: 1}).Error)

	require.NoError(t, m.Reset(ctx))

	var users []models.User
	require.NoError(t, m.DB.Find(&users).Error)
	require.Empty(t, users)

	var items []models.CartItem
	require.NoError(t, m.DB.Find(&items).Error)
	require.Empty(t, items)

	var products []models.Producto
	require.NoError(t, m.DB.Find(&products).Error)
	require.Len(t, products, len(SeedProducts()))
	for _, p := range products {
		require.NotEqual(t, "Custom", p.Nombre)
	}
}
