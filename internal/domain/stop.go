package domain

import "strings"

// Delivery address of a stop.
type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	PostalCode string
}

// Format renders the address as a single line suitable for a free-text
// geocoding search, e.g. "Rua Sete de Setembro, 120, Centro, Ribeirão Preto - SP".
// Complement is left out since geocoders cannot resolve it.
func (a Address) Format() string {
	parts := make([]string, 0, 4)

	street := strings.TrimSpace(a.Street)
	if n := strings.TrimSpace(a.Number); street != "" && n != "" {
		street += ", " + n
	}
	if street != "" {
		parts = append(parts, street)
	}

	if d := strings.TrimSpace(a.District); d != "" {
		parts = append(parts, d)
	}

	city := strings.TrimSpace(a.City)
	state := strings.TrimSpace(a.State)
	switch {
	case city != "" && state != "":
		parts = append(parts, city+" - "+state)
	case city != "":
		parts = append(parts, city)
	case state != "":
		parts = append(parts, state)
	}

	return strings.Join(parts, ", ")
}

// A single order to be delivered by a driver.
// Stops are transient: they come from the order store and are only reordered here.
type DeliveryStop struct {
	OrderID      int64
	Code         string
	CustomerName string
	Phone        string
	Address      Address
}
