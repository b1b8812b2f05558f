package types

import "encoding/json"

// OrderStatus is the backend lifecycle status of a harvest order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusStarted   OrderStatus = "started"
	OrderStatusCompleted OrderStatus = "completed"
)

// Display labels used by the order list.
const (
	StatusLabelPending    = "Pending"
	StatusLabelInProgress = "In Progress"
	StatusLabelCompleted  = "Completed"
)

type SupervisorDetails struct {
	SupervisorName    string `json:"supervisor_name,omitempty"`
	SupervisorContact string `json:"suervisor_contact,omitempty"`
	SupervisorID      string `json:"supervisor_id,omitempty"`
}

type FarmDetails struct {
	FarmID        string   `json:"farm_id,omitempty"`
	Area          *float64 `json:"area,omitempty"`
	BlockName     string   `json:"block_name,omitempty"`
	FarmingOption string   `json:"farming_option,omitempty"`
	FarmerName    string   `json:"farmer_name,omitempty"`
}

type FieldManagerDetails struct {
	Name           string `json:"name,omitempty"`
	FieldManagerID string `json:"field_manager_id,omitempty"`
	Contact        string `json:"contact,omitempty"`
}

type Vehicle struct {
	VehicleID     string `json:"vehicle_id"`
	DriverContact string `json:"driver_contact"`
	VehicleNumber string `json:"vehicle_number"`
}

type VehicleDetails struct {
	Harvestors []Vehicle `json:"harvestors,omitempty"`
	Tractors   []Vehicle `json:"tractors,omitempty"`
}

// Order is a harvest order as returned by get_harvest_orders.
// TripSheet is kept raw because its element shape depends on the backend version.
// Decoding is per field: a value of the wrong type leaves that field unset
// instead of failing the order (see decode.go).
type Order struct {
	OrderID             string               `json:"order_id"`
	CreatedAt           string               `json:"created_at"`
	Status              OrderStatus          `json:"status"`
	TipperCardNumber    *string              `json:"tipper_card_number"`
	SupervisorDetails   *SupervisorDetails   `json:"supervisor_details,omitempty"`
	FarmDetails         *FarmDetails         `json:"farm_details,omitempty"`
	FieldManagerDetails *FieldManagerDetails `json:"field_manager_details,omitempty"`
	VehicleDetails      *VehicleDetails      `json:"vehicle_details,omitempty"`
	TripSheet           json.RawMessage      `json:"trip_sheet,omitempty"`
}

// SupervisorID returns the supervisor identity embedded in the order, if any.
func (o Order) SupervisorID() (string, bool) {
	if o.SupervisorDetails == nil || o.SupervisorDetails.SupervisorID == "" {
		return "", false
	}
	return o.SupervisorDetails.SupervisorID, true
}

type HarvestOrdersResponse struct {
	HarvestOrders []Order `json:"harvest_orders"`
}

// OrderView is the normalized order shown in the order list.
type OrderView struct {
	ID            string `json:"id"`
	OrderNo       string `json:"order_no"`
	FieldName     string `json:"field_name"`
	Crop          string `json:"crop"`
	Quantity      string `json:"quantity"`
	ScheduledDate string `json:"scheduled_date"`
	Status        string `json:"status"`
	// Active is true iff a tipper card is allocated; only active orders can be scanned.
	Active bool  `json:"active"`
	Raw    Order `json:"raw"`
}

// TripRow is one normalized trip-sheet line.
type TripRow struct {
	TripNo                 string  `json:"trip_no"`
	NetWeightTon           float64 `json:"net_weight_ton"`
	MoisturePercent        float64 `json:"moisture_percent"`
	ForeignMaterialPercent float64 `json:"foreign_material_percent"`
}

// EventTipperUnloaded is the only stream event acted upon.
const EventTipperUnloaded = "TIPPER_UNLOADED"

// StreamEnvelope is an inbound frame on the harvest stream.
type StreamEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TipperUnloadedData is the payload of a TIPPER_UNLOADED event. Every field
// arrives as a number or a string depending on the producer, so they stay
// untyped until normalized.
type TipperUnloadedData struct {
	OrderID          any    `json:"order_id"`
	SupervisorID     any    `json:"supervisor_id"`
	NetWeight        any    `json:"net_weight"`
	MoistureLevel    any    `json:"moisture_level"`
	ForegineMaterial any    `json:"foregine_material"`
	TripSheetLength  any    `json:"trip_sheet_length"`
}

type StartTripRequest struct {
	OrderID    string `json:"order_id"`
	CardNumber string `json:"card_number"`
}

type StartTripResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}
