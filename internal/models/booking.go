package models

import "time"

const BookingStatusPending = "pending"

type FlightDetails struct {
	Carrier     string  `json:"carrier,omitempty" validate:"max=100"`
	Source      string  `json:"source,omitempty" validate:"max=100"`
	Destination string  `json:"destination,omitempty" validate:"max=100"`
	Departure   string  `json:"departure,omitempty" validate:"max=16"`
	Date        string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Duration    string  `json:"duration,omitempty" validate:"max=32"`
	Price       float64 `json:"price,omitempty" validate:"min=0"`
}

type BookingRequest struct {
	OfferID    string         `json:"offer_id" validate:"required,max=200"`
	OfferTitle string         `json:"offer_title" validate:"max=200"`
	OfferPrice float64        `json:"offer_price" validate:"min=0"`
	Name       string         `json:"name" validate:"required,min=1,max=100"`
	Email      string         `json:"email" validate:"required,email"`
	Phone      string         `json:"phone" validate:"max=32"`
	Travelers  int            `json:"travelers" validate:"min=0,max=50"`
	Notes      string         `json:"notes" validate:"max=1000"`
	Flight     *FlightDetails `json:"flight,omitempty"`
}

type Booking struct {
	ID         string         `json:"id"`
	OfferID    string         `json:"offer_id"`
	OfferTitle string         `json:"offer_title"`
	OfferPrice float64        `json:"offer_price"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Travelers  int            `json:"travelers"`
	Notes      string         `json:"notes,omitempty"`
	Flight     *FlightDetails `json:"flight,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
