package entitlement

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tarostudio/portal-api/internal/models"
)

func testResolver() *Resolver {
	table := NewSeatTable(TierPriceIDs{
		LiteBrew:       "price_lite_123",
		SignatureBlend: "price_blend_456",
		TaroCloud:      "price_cloud_789",
	})
	return NewResolver(table)
}

func TestResolver_KnownTiers(t *testing.T) {
	r := testResolver()

	tests := []struct {
		priceID string
		seats   int
	}{
		{"price_lite_123", 1},
		{"price_blend_456", 3},
		{"price_cloud_789", 5},
	}

	for _, tt := range tests {
		sub := &models.Subscription{
			Status:               models.SubscriptionActive,
			StripePriceID:        tt.priceID,
			StripeSubscriptionID: "sub_abc",
		}
		require.Equal(t, tt.seats, r.SeatLimit(sub))
	}
}

func TestResolver_UnknownPriceDefaultsToOne(t *testing.T) {
	r := testResolver()

	sub := &models.Subscription{
		Status:               models.SubscriptionActive,
		StripePriceID:        "price_mystery",
		StripeSubscriptionID: "sub_abc",
	}
	require.Equal(t, 1, r.SeatLimit(sub))
}

func TestResolver_AdminGrantedHeuristic(t *testing.T) {
	r := testResolver()

	tests := []struct {
		priceID string
		seats   int
	}{
		{"custom_lite_plan", 1},
		{"house_brew", 1},
		{"custom_signature_plan", 3},
		{"special_blend", 3},
		{"taro_deluxe", 5},
		{"cloud_nine", 5},
		{"something_else", 1},
	}

	for _, tt := range tests {
		sub := &models.Subscription{
			Status:               models.SubscriptionActive,
			StripePriceID:        tt.priceID,
			StripeSubscriptionID: "admin_granted_001",
		}
		require.Equal(t, tt.seats, r.SeatLimit(sub), "price %q", tt.priceID)
	}
}

func TestResolver_HeuristicRequiresAdminGrant(t *testing.T) {
	r := testResolver()

	// A checkout subscription with an unknown price never uses the heuristic.
	sub := &models.Subscription{
		Status:               models.SubscriptionActive,
		StripePriceID:        "special_blend",
		StripeSubscriptionID: "sub_regular",
	}
	require.Equal(t, 1, r.SeatLimit(sub))
}

func TestResolver_MissingTableSlots(t *testing.T) {
	// Unset price IDs leave their slot absent from the table.
	r := NewResolver(NewSeatTable(TierPriceIDs{SignatureBlend: "price_blend"}))

	sub := &models.Subscription{
		Status:               models.SubscriptionActive,
		StripePriceID:        "price_blend",
		StripeSubscriptionID: "sub_abc",
	}
	require.Equal(t, 3, r.SeatLimit(sub))

	require.Equal(t, 1, r.SeatLimit(nil))
}
