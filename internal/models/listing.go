package models

import "time"

type Listing struct {
	ID           int64     `json:"id" yaml:"id"`
	OwnerID      int64     `json:"owner_id" yaml:"owner_id"`
	Title        string    `json:"title" yaml:"title"`
	Address      string    `json:"address" yaml:"address"`
	Description  string    `json:"description" yaml:"description"`
	ExtraInfo    string    `json:"extra_info,omitempty" yaml:"extra_info"`
	Photos       []string  `json:"photos" yaml:"photos"`
	Perks        []string  `json:"perks" yaml:"perks"`
	CheckInHour  int       `json:"check_in_hour" yaml:"check_in_hour"`
	CheckOutHour int       `json:"check_out_hour" yaml:"check_out_hour"`
	MaxGuests    int64     `json:"max_guests" yaml:"max_guests"`
	NightlyPrice int64     `json:"nightly_price" yaml:"nightly_price"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// ListingPatch carries a partial update. Only non-nil fields are applied,
// so falsy-but-valid values (empty extra info, hour 0) survive a patch.
type ListingPatch struct {
	Title        *string   `json:"title"`
	Address      *string   `json:"address"`
	Description  *string   `json:"description"`
	ExtraInfo    *string   `json:"extra_info"`
	Photos       *[]string `json:"photos"`
	Perks        *[]string `json:"perks"`
	CheckInHour  *int      `json:"check_in_hour"`
	CheckOutHour *int      `json:"check_out_hour"`
	MaxGuests    *int64    `json:"max_guests"`
	NightlyPrice *int64    `json:"nightly_price"`
}

func (p *ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.ExtraInfo != nil {
		l.ExtraInfo = *p.ExtraInfo
	}
	if p.Photos != nil {
		l.Photos = *p.Photos
	}
	if p.Perks != nil {
		l.Perks = *p.Perks
	}
	if p.CheckInHour != nil {
		l.CheckInHour = *p.CheckInHour
	}
	if p.CheckOutHour != nil {
		l.CheckOutHour = *p.CheckOutHour
	}
	if p.MaxGuests != nil {
		l.MaxGuests = *p.MaxGuests
	}
	if p.NightlyPrice != nil {
		l.NightlyPrice = *p.NightlyPrice
	}
}

func (p *ListingPatch) Empty() bool {
	return p.Title == nil && p.Address == nil && p.Description == nil &&
		p.ExtraInfo == nil && p.Photos == nil && p.Perks == nil &&
		p.CheckInHour == nil && p.CheckOutHour == nil &&
		p.MaxGuests == nil && p.NightlyPrice == nil
}
