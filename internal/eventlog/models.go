package eventlog

import (
	"time"

	"github.com/google/uuid"

	id "authchain/pkg/domain"
)

// Event is one entry of the append-only ledger event log. Every accepted
// mutation records exactly one event; aborted operations record none.
//
// The struct is flat and transport-agnostic so stores and sinks can fan it
// out without caring which operation produced it; fields that do not apply to
// a given event name stay zero.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Seq         int64          `json:"seq"`
	Timestamp   time.Time      `json:"timestamp"`
	Name        string         `json:"name"`
	Actor       id.Account     `json:"actor"`
	Account     id.Account     `json:"account,omitempty"`
	Role        string         `json:"role,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	UID         string         `json:"uid,omitempty"`
	ProductCode id.ProductCode `json:"product_code,omitempty"`
	ProductName string         `json:"product_name,omitempty"`
	Quantity    int64          `json:"quantity,omitempty"`
	Handler     id.Account     `json:"handler,omitempty"`
}

// Event names, one per mutating operation.
const (
	AdminRegistered              = "AdminRegistered"
	RoleAssigned                 = "RoleAssigned"
	ManufacturerRegistered       = "ManufacturerRegistered"
	ManufacturerVerified         = "ManufacturerVerified"
	RetailerRegistered           = "RetailerRegistered"
	ConsumerRegistered           = "ConsumerRegistered"
	LogisticsPersonnelRegistered = "LogisticsPersonnelRegistered"
	ProductAdded                 = "ProductAdded"
	TransferredToRetailer        = "TransferredToRetailer"
	ProductSoldToConsumer        = "ProductSoldToConsumer"
)
