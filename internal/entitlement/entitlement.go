package entitlement

import (
	"strings"

	"github.com/tarostudio/portal-api/internal/constants"
	"github.com/tarostudio/portal-api/internal/models"
)

// SeatTable maps known Stripe price IDs to seat counts. Slots with an empty
// price ID are absent from the table.
type SeatTable struct {
	seats map[string]int
}

// TierPriceIDs holds the externally configured price IDs for the three tiers.
type TierPriceIDs struct {
	LiteBrew       string // 1 seat
	SignatureBlend string // 3 seats
	TaroCloud      string // 5 seats
}

// NewSeatTable builds the static plan-to-seats table from configured price IDs.
func NewSeatTable(ids TierPriceIDs) *SeatTable {
	seats := make(map[string]int, 3)
	if ids.LiteBrew != "" {
		seats[ids.LiteBrew] = 1
	}
	if ids.SignatureBlend != "" {
		seats[ids.SignatureBlend] = 3
	}
	if ids.TaroCloud != "" {
		seats[ids.TaroCloud] = 5
	}
	return &SeatTable{seats: seats}
}

// Resolver determines seat limits from subscription records.
type Resolver struct {
	table *SeatTable
}

// NewResolver creates a Resolver backed by the given seat table.
func NewResolver(table *SeatTable) *Resolver {
	return &Resolver{table: table}
}

// SeatLimit resolves the maximum number of team seats for a subscription.
// Unknown price IDs on admin-granted subscriptions fall back to a substring
// heuristic on the price ID; everything else defaults to one seat.
func (r *Resolver) SeatLimit(sub *models.Subscription) int {
	if sub == nil {
		return constants.DefaultSeatLimit
	}

	if seats, ok := r.table.seats[sub.StripePriceID]; ok {
		return seats
	}

	if sub.IsAdminGranted() {
		price := strings.ToLower(sub.StripePriceID)
		switch {
		case strings.Contains(price, "lite") || strings.Contains(price, "brew"):
			return 1
		case strings.Contains(price, "signature") || strings.Contains(price, "blend"):
			return 3
		case strings.Contains(price, "taro") || strings.Contains(price, "cloud"):
			return 5
		}
	}

	return constants.DefaultSeatLimit
}
