package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
)

func requireDecimal(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromInt(want)), "%s: expected %d got %s", field, want, got)
}

func TestTotalsPickupWithExtras(t *testing.T) {
	totals := readySession(enums.OrderTypePickup).Totals()

	requireDecimal(t, 100, totals.CartSubtotal, "cart subtotal")
	requireDecimal(t, 50, totals.ExtrasTotal, "extras")
	requireDecimal(t, 150, totals.Subtotal, "subtotal")
	requireDecimal(t, 0, totals.DeliveryFee, "fee")
	requireDecimal(t, 150, totals.GrandTotal, "grand total")
	require.True(t, totals.MinimumOrderMet)
}

func TestTotalsDeliveryAddsZoneFee(t *testing.T) {
	totals := readySession(enums.OrderTypeDelivery).Totals()

	requireDecimal(t, 20, totals.DeliveryFee, "fee")
	requireDecimal(t, 170, totals.GrandTotal, "grand total")
	requireDecimal(t, 200, totals.MinimumOrder, "minimum")
	require.False(t, totals.MinimumOrderMet)
}

func TestTotalsPickupIgnoresPreviouslySelectedZone(t *testing.T) {
	s := readySession(enums.OrderTypeDelivery)
	s.State.OrderType = enums.OrderTypePickup

	totals := s.Totals()
	requireDecimal(t, 0, totals.DeliveryFee, "fee")
	requireDecimal(t, 150, totals.GrandTotal, "grand total")
}

func TestTotalsDeliveryWithoutZoneHasNoFee(t *testing.T) {
	s := readySession(enums.OrderTypeDelivery)
	s.State.ZoneID = nil

	requireDecimal(t, 0, s.Totals().DeliveryFee, "fee")
}

func TestTotalsDecrementToZeroExcludesAddon(t *testing.T) {
	s := readySession(enums.OrderTypePickup)
	_, err := s.SetAddonQuantity(burgerLineID(), baconID, -1)
	require.NoError(t, err)

	totals := s.Totals()
	requireDecimal(t, 20, totals.ExtrasTotal, "extras")
	requireDecimal(t, 120, totals.GrandTotal, "grand total")
}

func TestTotalsGrandTotalIsSumOfParts(t *testing.T) {
	cases := []func(*Session){
		func(*Session) {},
		func(s *Session) { s.State.Extras.Adjust(burgerLineID(), cheeseID, 3) },
		func(s *Session) { s.State.OrderType = enums.OrderTypePickup },
		func(s *Session) {
			zone := northZoneID
			s.State.OrderType = enums.OrderTypeDelivery
			s.State.ZoneID = &zone
		},
		func(s *Session) { s.State.Extras.Adjust(burgerLineID(), baconID, -5) },
	}
	s := newTestSession(fullSnapshot())
	for i, apply := range cases {
		apply(s)
		totals := s.Totals()
		sum := totals.CartSubtotal.Add(totals.ExtrasTotal).Add(totals.DeliveryFee)
		require.True(t, totals.GrandTotal.Equal(sum), "case %d: %s != %s", i, totals.GrandTotal, sum)
	}
}

func TestComputeTotalsSkipsAddonsMissingFromCatalog(t *testing.T) {
	s := readySession(enums.OrderTypePickup)
	onlyCheese := []catalog.Addon{testAddons()[0]}

	totals := ComputeTotals(s.Cart, onlyCheese, nil, s.State)
	requireDecimal(t, 20, totals.ExtrasTotal, "extras")
}
