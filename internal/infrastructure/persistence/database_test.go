package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"github.com/supplynet/backend/internal/infrastructure/config"
	"github.com/supplynet/backend/internal/infrastructure/persistence/models"
)

func testDatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 60,
		ConnMaxIdleTime: 30,
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pool limits from config", func(t *testing.T) {
		mockDB, _, err := sqlmock.New()
		require.NoError(t, err)

		db, err := Open(ctx, testDatabaseConfig(),
			WithDialector(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})))
		require.NoError(t, err)

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("ping failure is reported", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(assert.AnError)

		db, err := Open(ctx, testDatabaseConfig(),
			WithDialector(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})))
		assert.Nil(t, db)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("sqlite dialector holds the supply-chain schema", func(t *testing.T) {
		cfg := testDatabaseConfig()
		cfg.MaxOpenConns, cfg.MaxIdleConns = 1, 1
		db, err := Open(ctx, cfg,
			WithDialector(sqlite.Open(":memory:")),
			WithGormLogger(logger.Discard))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		require.NoError(t, db.DB.AutoMigrate(models.SupplyChainModels()...))
		for _, table := range []string{"contacts", "networks", "products"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})
}

func TestDatabase_PingContext(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(context.Background(), testDatabaseConfig(),
		WithDialector(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})))
	require.NoError(t, err)
	require.NoError(t, db.PingContext(context.Background()))

	mock.ExpectClose()
	require.NoError(t, db.Close())

	err = db.PingContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
}

func TestDatabase_Close(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(context.Background(), testDatabaseConfig(),
		WithDialector(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})))
	require.NoError(t, err)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
