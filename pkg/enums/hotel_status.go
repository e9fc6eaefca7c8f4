package enums

import "fmt"

// HotelStatus is the admin approval state of a hotel.
type HotelStatus string

const (
	HotelStatusPending  HotelStatus = "pending"
	HotelStatusApproved HotelStatus = "approved"
	HotelStatusRejected HotelStatus = "rejected"
)

var validHotelStatuses = []HotelStatus{
	HotelStatusPending,
	HotelStatusApproved,
	HotelStatusRejected,
}

// String implements fmt.Stringer.
func (h HotelStatus) String() string {
	return string(h)
}

// IsValid reports whether the value is a known HotelStatus.
func (h HotelStatus) IsValid() bool {
	for _, candidate := range validHotelStatuses {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHotelStatus converts raw input into a HotelStatus.
func ParseHotelStatus(value string) (HotelStatus, error) {
	for _, candidate := range validHotelStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid hotel status %q", value)
}
