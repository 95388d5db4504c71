// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Amounts are stored as BIGINT minor units next to a three-letter currency
// column; rates and configured values are stored as decimals.
//
// Structure:
// - base.go: shared columns and the money column pair
// - broker.go: brokers
// - commission.go: commission models, tiers, unit rules and earned records
// - payout.go: payment records and the items they settled
// - schedule.go: contract payment plans
package models
