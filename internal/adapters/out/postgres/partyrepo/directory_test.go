package partyrepo_test

import (
	"context"
	"testing"

	"marketplace/internal/adapters/out/postgres/partyrepo"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGormPartyDirectory_ProviderLocationsMatchesOnUUIDColumn(t *testing.T) {
	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{
		DSN: "host=localhost user=marketplace dbname=marketplace sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var statements []string
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)

	directory := partyrepo.NewGormPartyDirectory(db)
	locations, err := directory.ProviderLocations(context.Background(), []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()})

	require.NoError(t, err)
	assert.Empty(t, locations)
	require.Len(t, statements, 1)
	assert.Contains(t, statements[0], "id = ANY($1::uuid[])")
	assert.NotContains(t, statements[0], "::text")
}

func TestGormPartyDirectory_ProviderLocationsWithoutIDs(t *testing.T) {
	locations, err := partyrepo.NewGormPartyDirectory(nil).ProviderLocations(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, locations)
}
