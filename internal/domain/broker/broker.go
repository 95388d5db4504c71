package broker

import (
	"context"
	"regexp"
	"strings"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is a broker's onboarding state
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Broker is a sales partner who earns commissions
type Broker struct {
	shared.TenantAggregateRoot
	Name   string
	Email  string
	Phone  string
	Status Status
}

// NewBroker creates an active broker
func NewBroker(tenantID uuid.UUID, name, email, phone string) (*Broker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "name is required")
	}
	email = NormalizeEmail(email)
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return nil, shared.NewValidationError("email", "invalid email format")
	}
	return &Broker{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Phone:               strings.TrimSpace(phone),
		Status:              StatusActive,
	}, nil
}

// NormalizeEmail lowercases and trims an address for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Deactivate stops the broker from receiving new commissions
func (b *Broker) Deactivate() {
	b.Status = StatusInactive
	b.Touch()
}

// Repository persists brokers
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Broker, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Broker, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Broker, int64, error)
	Save(ctx context.Context, b *Broker) error
}
