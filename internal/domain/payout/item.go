package payout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ItemType distinguishes the two sources of payable items
type ItemType string

const (
	ItemTypeCommission ItemType = "COMMISSION"
	ItemTypeIncentive  ItemType = "INCENTIVE"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemTypeCommission || t == ItemTypeIncentive
}

// ItemRef identifies one payable item
type ItemRef struct {
	Type ItemType  `json:"item_type"`
	ID   uuid.UUID `json:"item_id"`
}

// String returns "TYPE:id"
func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// EligibleItem is an earned, unpaid commission or incentive
type EligibleItem struct {
	Ref       ItemRef
	BrokerID  uuid.UUID
	Amount    valueobject.Money
	CreatedAt time.Time
}

// SortOldestFirst orders items by creation time, breaking ties by ID so
// allocation is deterministic and replayable. It returns a sorted copy.
func SortOldestFirst(items []EligibleItem) []EligibleItem {
	sorted := make([]EligibleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		if c := strings.Compare(sorted[i].Ref.ID.String(), sorted[j].Ref.ID.String()); c != 0 {
			return c < 0
		}
		return sorted[i].Ref.Type < sorted[j].Ref.Type
	})
	return sorted
}

// EligibleItemRepository lists a broker's outstanding items
type EligibleItemRepository interface {
	ListEligible(ctx context.Context, tenantID, brokerID uuid.UUID) ([]EligibleItem, error)
	FindEligible(ctx context.Context, tenantID uuid.UUID, refs []ItemRef) ([]EligibleItem, error)
}

// BrokerDirectory resolves the broker identifier used in import files
type BrokerDirectory interface {
	// FindBrokerIDByEmail returns a not-found domain error for unknown brokers
	FindBrokerIDByEmail(ctx context.Context, tenantID uuid.UUID, email string) (uuid.UUID, error)
}
