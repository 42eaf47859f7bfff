package dto

type AddressDTO struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type StopDTO struct {
	OrderID      int64      `json:"order_id"`
	Code         string     `json:"code"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone,omitempty"`
	Address      AddressDTO `json:"address"`
}

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type OptimizeRouteRequest struct {
	Stops          []StopDTO    `json:"stops"`
	DriverLocation *LocationDTO `json:"driver_location"`
}

type OptimizeRouteResponse struct {
	Stops []StopDTO `json:"stops"`
}
