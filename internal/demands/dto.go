package demands

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
)

// CreateInput carries the demand posting form fields.
type CreateInput struct {
	CropName string  `json:"crop_name" validate:"required,min=1,max=120"`
	Quantity string  `json:"quantity" validate:"required,max=64"`
	Location *string `json:"location" validate:"omitempty,max=160"`
	Quality  *string `json:"quality" validate:"omitempty,max=64"`
	Message  *string `json:"message" validate:"omitempty,max=2000"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
}

// UpdateInput carries the editable demand fields. Nil means unchanged.
type UpdateInput struct {
	CropName *string `json:"crop_name" validate:"omitempty,min=1,max=120"`
	Quantity *string `json:"quantity" validate:"omitempty,max=64"`
	Location *string `json:"location" validate:"omitempty,max=160"`
	Quality  *string `json:"quality" validate:"omitempty,max=64"`
	Message  *string `json:"message" validate:"omitempty,max=2000"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
}

// Demand is the API projection of a demand posting.
type Demand struct {
	ID        int64     `json:"id"`
	BuyerID   int64     `json:"buyer_id"`
	BuyerName string    `json:"buyer_name,omitempty"`
	CropName  string    `json:"crop_name"`
	Quantity  string    `json:"quantity"`
	Location  *string   `json:"location,omitempty"`
	Quality   *string   `json:"quality,omitempty"`
	Message   *string   `json:"message,omitempty"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is a listing page with its continuation cursor.
type Page struct {
	Items      []Demand `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// ToDemand maps a model row into its API projection.
func ToDemand(demand *models.Demand) Demand {
	out := Demand{
		ID:        demand.ID,
		BuyerID:   demand.BuyerID,
		CropName:  demand.CropName,
		Quantity:  demand.Quantity,
		Location:  demand.Location,
		Quality:   demand.Quality,
		Message:   demand.Message,
		Image:     demand.Image,
		CreatedAt: demand.CreatedAt,
	}
	if demand.Buyer != nil {
		out.BuyerName = demand.Buyer.Name
	}
	return out
}
