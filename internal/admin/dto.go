package admin

import (
	"github.com/agrilinkmw/agrilink-backend/internal/orders"
	"github.com/agrilinkmw/agrilink-backend/internal/users"
)

// Report aggregates platform activity for the admin dashboard.
type Report struct {
	TotalUsers    int64 `json:"total_users"`
	TotalCrops    int64 `json:"total_crops"`
	TotalDemands  int64 `json:"total_demands"`
	TotalOrders   int64 `json:"total_orders"`
	TotalMessages int64 `json:"total_messages"`
	ActiveFarmers int64 `json:"active_farmers"`
	ActiveBuyers  int64 `json:"active_buyers"`
}

// OrderListing is the full order report joined across buyer, farmer and crop.
type OrderListing struct {
	Orders []orders.Order `json:"orders"`
}

// UserListing is the moderation view over accounts.
type UserListing struct {
	Users []users.Profile `json:"users"`
}
