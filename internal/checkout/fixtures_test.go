package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/internal/cart"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/internal/restaurants"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

var (
	restaurantID = uuid.MustParse("5b0f4a5e-0f39-4b57-9d0e-3f3c2d1a0001")
	cheeseID     = uuid.MustParse("5b0f4a5e-0f39-4b57-9d0e-3f3c2d1a0101")
	baconID      = uuid.MustParse("5b0f4a5e-0f39-4b57-9d0e-3f3c2d1a0102")
	syrupID      = uuid.MustParse("5b0f4a5e-0f39-4b57-9d0e-3f3c2d1a0103")
	northZoneID  = uuid.MustParse("5b0f4a5e-0f39-4b57-9d0e-3f3c2d1a0201")
	fixedNow     = time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
)

func testRestaurant() restaurants.Restaurant {
	return restaurants.Restaurant{
		ID:            restaurantID,
		Slug:          "burger-hub",
		Name:          types.LocalizedText{En: "Burger Hub", Ar: "برجر هب"},
		WhatsAppPhone: "+966 50 000 0001",
		CurrencyLabel: "SAR",
		DefaultLocale: enums.LocaleEN,
		OrdersEnabled: true,
	}
}

func testAddons() []catalog.Addon {
	return []catalog.Addon{
		{ID: cheeseID, Name: types.LocalizedText{En: "Cheese", Ar: "جبن"}, Price: decimal.NewFromInt(10), Type: enums.AddonTypeSavory},
		{ID: baconID, Name: types.LocalizedText{En: "Bacon", Ar: "بيكون"}, Price: decimal.NewFromInt(15), Type: enums.AddonTypeSavory},
		{ID: syrupID, Name: types.LocalizedText{En: "Syrup"}, Price: decimal.NewFromInt(5), Type: enums.AddonTypeSweet},
	}
}

func testZones() []catalog.Zone {
	return []catalog.Zone{{
		ID:           northZoneID,
		Name:         types.LocalizedText{En: "North", Ar: "الشمال"},
		Fee:          decimal.NewFromInt(20),
		MinimumOrder: decimal.NewFromInt(200),
	}}
}

// burgerLine is 50 x 2 = 100.
func burgerLine() cart.Line {
	return cart.Line{
		ItemID:       "burger",
		Title:        types.LocalizedText{En: "Burger", Ar: "برجر"},
		Price:        decimal.NewFromInt(50),
		Size:         "Large",
		Quantity:     2,
		Category:     "burgers",
		CategoryType: enums.AddonTypeSavory,
	}
}

func testCart(lines ...cart.Line) cart.Cart {
	if len(lines) == 0 {
		lines = []cart.Line{burgerLine()}
	}
	c, err := cart.FromLines(lines)
	if err != nil {
		panic(err)
	}
	return c
}

func newTestSession(snapshot catalog.Snapshot) *Session {
	return NewSession(testRestaurant(), enums.LocaleEN, testCart(), snapshot, fixedNow)
}

func fullSnapshot() catalog.Snapshot {
	return catalog.Snapshot{Addons: testAddons(), Zones: testZones()}
}

func burgerLineID() string {
	return cart.LineID("burger", "Large", nil)
}

// readySession is at Summary with cheese and bacon on the burger line.
func readySession(orderType enums.OrderType) *Session {
	s := newTestSession(fullSnapshot())
	s.State.Extras.Adjust(burgerLineID(), cheeseID, 1)
	s.State.Extras.Adjust(burgerLineID(), baconID, 1)
	s.State.CustomerName = "Sara"
	s.State.Phone = "0551234567"
	s.State.OrderType = orderType
	if orderType == enums.OrderTypeDelivery {
		zone := northZoneID
		s.State.ZoneID = &zone
		s.State.Address = "12 King Fahd Rd"
	}
	s.State.Step = enums.CheckoutStepSummary
	return s
}
