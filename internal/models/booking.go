package models

import "time"

type Booking struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	ListingID    int64     `json:"listing_id"`
	GuestID      int64     `json:"guest_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Guests       int64     `json:"guests"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	TotalPrice   int64     `json:"total_price"`
	Status       string    `json:"status"` // confirmed, cancelled, completed
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int64     `json:"version"`
}

// Nights returns the number of whole days covered by [CheckIn, CheckOut).
func (b *Booking) Nights() int64 {
	return int64(b.CheckOut.Sub(b.CheckIn) / (24 * time.Hour))
}

// BookingRequest carries the validated inputs for creating a booking.
// The total price is always computed server-side.
type BookingRequest struct {
	ListingID    int64     `json:"listing_id"`
	GuestID      int64     `json:"guest_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Guests       int64     `json:"guests"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
}

// BookingDetails is a booking joined with summaries of the listing it was
// made against and the listing's owner, for the guest-facing booking list.
type BookingDetails struct {
	Booking
	ListingTitle   string `json:"listing_title"`
	ListingAddress string `json:"listing_address"`
	OwnerID        int64  `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
	OwnerEmail     string `json:"owner_email"`
}

type Availability struct {
	Date      time.Time `json:"date"`
	ListingID int64     `json:"listing_id"`
	Booked    bool      `json:"booked"`
}
