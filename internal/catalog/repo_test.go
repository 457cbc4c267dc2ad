package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestRepositoryListsOnlyActiveRowsInOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurant := models.Restaurant{Slug: "shawarma", Name: types.LocalizedText{En: "Shawarma"}, WhatsAppPhone: "1"}
	require.NoError(t, db.Create(&restaurant).Error)
	other := models.Restaurant{Slug: "other", Name: types.LocalizedText{En: "Other"}, WhatsAppPhone: "2"}
	require.NoError(t, db.Create(&other).Error)

	addons := []models.Addon{
		{RestaurantID: restaurant.ID, Name: types.LocalizedText{En: "Garlic"}, Price: decimal.NewFromInt(2), Type: enums.AddonTypeSavory, Active: true, SortOrder: 2},
		{RestaurantID: restaurant.ID, Name: types.LocalizedText{En: "Pickles"}, Price: decimal.NewFromInt(1), Type: enums.AddonTypeSavory, Active: true, SortOrder: 1},
		{RestaurantID: other.ID, Name: types.LocalizedText{En: "Foreign"}, Price: decimal.NewFromInt(1), Type: enums.AddonTypeSweet, Active: true},
	}
	require.NoError(t, db.Create(&addons).Error)
	inactive := models.Addon{RestaurantID: restaurant.ID, Name: types.LocalizedText{En: "Retired"}, Price: decimal.NewFromInt(1), Type: enums.AddonTypeSweet, Active: true}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)

	got, err := repo.ListActiveAddons(ctx, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pickles", got[0].Name.En)
	assert.Equal(t, "Garlic", got[1].Name.En)

	zone := models.DeliveryZone{RestaurantID: restaurant.ID, Name: types.LocalizedText{En: "Downtown"}, Fee: decimal.RequireFromString("12.5"), Active: true}
	require.NoError(t, db.Create(&zone).Error)

	zones, err := repo.ListActiveZones(ctx, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.True(t, zones[0].Fee.Equal(decimal.RequireFromString("12.5")))

	none, err := repo.ListActiveZones(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
