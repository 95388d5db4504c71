package router

import (
	"github.com/estate/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the API handlers
type Handlers struct {
	Brokers          *handler.BrokerHandler
	CommissionModels *handler.CommissionModelHandler
	Commissions      *handler.CommissionHandler
	Schedules        *handler.ScheduleHandler
	Payouts          *handler.PayoutHandler
	Health           *handler.HealthHandler
}

// APIGroups returns the /api/v1 route groups. tenant guards every group
// that reads or writes tenant data; the schedule estimator and health
// check are public.
func APIGroups(h Handlers, tenant gin.HandlerFunc) []RouteRegistrar {
	brokers := NewDomainGroup("brokers", "/brokers").Use(tenant).
		POST("", h.Brokers.Create).
		GET("", h.Brokers.List).
		GET("/:id", h.Brokers.Get).
		POST("/:id/deactivate", h.Brokers.Deactivate).
		GET("/:id/eligible-items", h.Brokers.EligibleItems).
		GET("/:id/payments", h.Brokers.Payments)

	models := NewDomainGroup("commission-models", "/commission-models").Use(tenant).
		POST("", h.CommissionModels.Create).
		GET("", h.CommissionModels.List).
		GET("/:id", h.CommissionModels.Get).
		PUT("/:id", h.CommissionModels.Update).
		DELETE("/:id", h.CommissionModels.Delete).
		POST("/:id/archive", h.CommissionModels.Archive).
		POST("/:id/activate", h.CommissionModels.Activate).
		POST("/:id/resolve", h.CommissionModels.Resolve)

	commissions := NewDomainGroup("commissions", "/commissions").Use(tenant).
		POST("", h.Commissions.Earn)

	incentives := NewDomainGroup("incentives", "/incentives").Use(tenant).
		POST("", h.Commissions.GrantIncentive)

	schedules := NewDomainGroup("schedules", "/schedules").
		POST("/estimate", h.Schedules.Estimate)

	contracts := NewDomainGroup("contracts", "/contracts").Use(tenant).
		POST("/:id/payment-plan", h.Schedules.GeneratePlan).
		GET("/:id/payment-plan", h.Schedules.GetPlan)

	payouts := NewDomainGroup("payouts", "/payouts").Use(tenant).
		POST("/manual", h.Payouts.SettleManual).
		POST("/import", h.Payouts.Import).
		GET("/import/template", h.Payouts.Template).
		GET("/:id", h.Payouts.GetPayment)

	system := NewDomainGroup("system", "").
		GET("/health", h.Health.Check)

	return []RouteRegistrar{brokers, models, commissions, incentives, schedules, contracts, payouts, system}
}
