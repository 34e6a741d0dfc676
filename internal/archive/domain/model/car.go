package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car statuses
const (
	CarStatusAvailable = "available"
	CarStatusPending   = "pending"
	CarStatusSold      = "sold"
)

// Mileage is a value with its unit, miles or kilometers
type Mileage struct {
	Value float64 `json:"value" bson:"value"`
	Unit  string  `json:"unit" bson:"unit"`
}

// Price captures the listing price and its visibility
type Price struct {
	ListPrice *float64 `json:"listPrice,omitempty" bson:"list_price,omitempty"`
	SoldPrice *float64 `json:"soldPrice,omitempty" bson:"sold_price,omitempty"`
	Currency  string   `json:"currency" bson:"currency"`
}

// Car is an inventory vehicle in the archive
type Car struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Make        string             `json:"make" bson:"make"`
	Model       string             `json:"model" bson:"model"`
	Year        int                `json:"year" bson:"year"`
	VIN         string             `json:"vin,omitempty" bson:"vin,omitempty"`
	Color       string             `json:"color,omitempty" bson:"color,omitempty"`
	Mileage     *Mileage           `json:"mileage,omitempty" bson:"mileage,omitempty"`
	Price       *Price             `json:"price,omitempty" bson:"price,omitempty"`
	Status      string             `json:"status" bson:"status"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Images      []string           `json:"images" bson:"images"`
	ClientID    string             `json:"clientId,omitempty" bson:"client_id,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CarFilter narrows car list queries. Zero values are ignored.
type CarFilter struct {
	Make     string
	Model    string
	YearMin  int
	YearMax  int
	Status   string
	ClientID string
	Search   string
}

// Make is vehicle-make reference data
type Make struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	CountryOfOrigin string             `json:"countryOfOrigin,omitempty" bson:"country_of_origin,omitempty"`
	FoundedYear     int                `json:"foundedYear,omitempty" bson:"founded_year,omitempty"`
	Active          bool               `json:"active" bson:"active"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CarModel is vehicle-model reference data tied to a make
type CarModel struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Make      string             `json:"make" bson:"make"`
	Name      string             `json:"name" bson:"name"`
	YearStart int                `json:"yearStart,omitempty" bson:"year_start,omitempty"`
	YearEnd   int                `json:"yearEnd,omitempty" bson:"year_end,omitempty"`
	BodyStyle string             `json:"bodyStyle,omitempty" bson:"body_style,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}
