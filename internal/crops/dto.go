package crops

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CreateInput carries the listing form fields.
type CreateInput struct {
	CropName    string  `json:"crop_name" validate:"required,min=1,max=120"`
	Quantity    string  `json:"quantity" validate:"required,max=64"`
	Price       string  `json:"price" validate:"required"`
	Quality     *string `json:"quality" validate:"omitempty,max=64"`
	CropGrade   *string `json:"crop_grade" validate:"omitempty,max=64"`
	HarvestDate *string `json:"harvest_date" validate:"omitempty,max=64"`
	Location    *string `json:"location" validate:"omitempty,max=160"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
}

// UpdateInput carries the editable listing fields. Nil means unchanged.
type UpdateInput struct {
	CropName    *string `json:"crop_name" validate:"omitempty,min=1,max=120"`
	Quantity    *string `json:"quantity" validate:"omitempty,max=64"`
	Price       *string `json:"price"`
	Quality     *string `json:"quality" validate:"omitempty,max=64"`
	CropGrade   *string `json:"crop_grade" validate:"omitempty,max=64"`
	HarvestDate *string `json:"harvest_date" validate:"omitempty,max=64"`
	Location    *string `json:"location" validate:"omitempty,max=160"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
}

// Crop is the API projection of a listing.
type Crop struct {
	ID          int64           `json:"id"`
	FarmerID    int64           `json:"farmer_id"`
	FarmerName  string          `json:"farmer_name,omitempty"`
	CropName    string          `json:"crop_name"`
	Quantity    string          `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Quality     *string         `json:"quality,omitempty"`
	CropGrade   *string         `json:"crop_grade,omitempty"`
	HarvestDate *string         `json:"harvest_date,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Image       *string         `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Page is a listing page with its continuation cursor.
type Page struct {
	Items      []Crop `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// ToCrop maps a model row into its API projection.
func ToCrop(crop *models.Crop) Crop {
	out := Crop{
		ID:          crop.ID,
		FarmerID:    crop.FarmerID,
		CropName:    crop.CropName,
		Quantity:    crop.Quantity,
		Price:       crop.Price,
		Quality:     crop.Quality,
		CropGrade:   crop.CropGrade,
		HarvestDate: crop.HarvestDate,
		Location:    crop.Location,
		Image:       crop.Image,
		CreatedAt:   crop.CreatedAt,
	}
	if crop.Farmer != nil {
		out.FarmerName = crop.Farmer.Name
	}
	return out
}
