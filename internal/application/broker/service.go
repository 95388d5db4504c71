package broker

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBrokerRequest registers a broker
type CreateBrokerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// ListBrokersQuery pages through brokers
type ListBrokersQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// BrokerResponse is the API view of a broker
type BrokerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBrokerResponse converts a domain broker
func ToBrokerResponse(b *broker.Broker) BrokerResponse {
	return BrokerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// Service manages the broker directory
type Service struct {
	brokers broker.Repository
}

// NewService creates a broker service
func NewService(brokers broker.Repository) *Service {
	return &Service{brokers: brokers}
}

// Create registers a broker; emails are unique per tenant
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateBrokerRequest) (*BrokerResponse, error) {
	b, err := broker.NewBroker(tenantID, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	existing, err := s.brokers.FindByEmail(ctx, tenantID, b.Email)
	if err != nil && !shared.IsNotFoundError(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewConflictError("a broker with this email already exists")
	}
	if err := s.brokers.Save(ctx, b); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Broker created", zap.String("broker_id", b.ID.String()))
	resp := ToBrokerResponse(b)
	return &resp, nil
}

// Get returns one broker
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*BrokerResponse, error) {
	b, err := s.brokers.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBrokerResponse(b)
	return &resp, nil
}

// List pages through a tenant's brokers
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, q ListBrokersQuery) (shared.Paginated[BrokerResponse], error) {
	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}
	if q.Status != "" {
		filter.Filters = map[string]any{"status": q.Status}
	}
	brokers, total, err := s.brokers.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BrokerResponse]{}, err
	}
	items := make([]BrokerResponse, len(brokers))
	for i := range brokers {
		items[i] = ToBrokerResponse(&brokers[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Deactivate stops a broker from earning new commissions. Already earned
// items stay payable.
func (s *Service) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*BrokerResponse, error) {
	b, err := s.brokers.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != broker.StatusInactive {
		b.Deactivate()
		if err := s.brokers.Save(ctx, b); err != nil {
			return nil, err
		}
		logger.L(ctx).Info("Broker deactivated", zap.String("broker_id", b.ID.String()))
	}
	resp := ToBrokerResponse(b)
	return &resp, nil
}
