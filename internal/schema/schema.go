// Package schema owns creation and versioning of the three record sets the
// storefront runs on: users, products and cart lines. Upgrades are a ladder
// of ordered steps, each applied in its own transaction and recorded in
// schema_migrations, never a blanket destroy. The destructive path survives
// only in Reset for the case where the store was written by a newer binary.
package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

// ErrVersionAhead means the store records a schema version this binary does
// not know. The only way forward is Reset, which loses all data.
var ErrVersionAhead = errors.New("schema version ahead of binary")

type step struct {
	Version int
	Apply   func(tx *gorm.DB) error
}

var ladder = []step{
	{Version: 1, Apply: createCoreTables},
	{Version: 2, Apply: createRefreshTokens},
}

type Migrator struct {
	DB *gorm.DB
}

// Current returns the highest applied step version, 0 for a fresh store.
func (m *Migrator) Current(ctx context.Context) (int, error) {
	db := m.DB.WithContext(ctx)
	if err := db.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return 0, fmt.Errorf("schema_migrations table: %w", err)
	}

	var version int
	row := db.Model(&models.SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Row()
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every step above the recorded version, one transaction per
// step. It returns ErrVersionAhead when the store is newer than the ladder.
func (m *Migrator) Migrate(ctx context.Context) error {
	current, err := m.Current(ctx)
	if err != nil {
		return err
	}

	latest := ladder[len(ladder)-1].Version
	if current > latest {
		return fmt.Errorf("store at version %d, binary knows %d: %w", current, latest, ErrVersionAhead)
	}

	for _, s := range ladder {
		if s.Version <= current {
			continue
		}
		err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.Apply(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{
				Version:   s.Version,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("schema step %d: %w", s.Version, err)
		}
	}
	return nil
}

// Reset drops every table and replays the ladder from scratch. All users,
// carts and custom products are lost; the demo products are reseeded.
func (m *Migrator) Reset(ctx context.Context) error {
	db := m.DB.WithContext(ctx)
	tables := []interface{}{
		&models.CartItem{},
		&models.RefreshToken{},
		&models.User{},
		&models.Producto{},
		&models.SchemaMigration{},
	}
	for _, t := range tables {
		if err := db.Migrator().DropTable(t); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return m.Migrate(ctx)
}

func createCoreTables(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&models.User{}, &models.Producto{}, &models.CartItem{}); err != nil {
		return err
	}
	return seedProducts(tx)
}

func createRefreshTokens(tx *gorm.DB) error {
	return tx.AutoMigrate(&models.RefreshToken{})
}

func seedProducts(tx *gorm.DB) error {
	for _, p := range SeedProducts() {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts returns the demo catalog the store ships with so it never
// starts empty.
func SeedProducts() []models.Producto {
	return []models.Producto{
		{
			Nombre:          "Headset Gamer HyperX Cloud Alpha",
			Descripcion:     "Audífonos con micrófono y almohadillas de espuma viscoelástica con tecnología HyperX Dual Chamber para un sonido más nítido y menos distorsión.",
			Precio:          99990,
			Categoria:       "Audio",
			Stock:           3,
			Imagen:          "https://media.solotodo.com/media/products/133461_picture_1652988450.webp",
			Caracteristicas: "Sonido 7.1, Inalámbrico, Cancelación de ruido",
			Proveedor:       "HyperX",
		},
		{
			Nombre:          "Mouse Gamer Logitech G502",
			Descripcion:     "Mouse para juegos de alto rendimiento con sensor HERO 25K, el sensor para juegos más preciso de Logitech hasta la fecha. Con 11 botones programables, iluminación RGB LIGHTSYNC y pesas ajustables.",
			Precio:          69990,
			Categoria:       "Periféricos",
			Stock:           25,
			Imagen:          "https://media.solotodo.com/media/products/56793_picture_1583595568.webp",
			Caracteristicas: "11 botones programables, Pesas ajustables, RGB Lightsync",
			Proveedor:       "Logitech",
		},
	}
}
