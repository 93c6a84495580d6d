package models

// Item is a catalog entry. PurchasePrice is the current cost basis and may
// drift after orders referencing the item were placed; reports always read
// it live, never from order snapshots.
type Item struct {
	ID                   string
	Name                 string
	Description          string
	PurchasePrice        float64
	SellingPrice         float64
	IsAvailable          bool
	AvailableTimeslotIDs []string
	ImageURL             string
}

// Timeslot is a recurring delivery slot. OrderStart/OrderEnd bound the
// local wall-clock window during which orders may be placed; both empty
// means ordering is unrestricted.
type Timeslot struct {
	ID                   string
	Label                string
	StartTime            string
	EndTime              string
	DeliveryTime         string
	AvailableLocationIDs []string
	OrderStart           string
	OrderEnd             string
}

// Location is a delivery point
type Location struct {
	ID      string
	Name    string
	Address string
}

// SettingDeliveryCharge is the settings key holding the flat delivery
// charge applied to every order at creation
const SettingDeliveryCharge = "deliveryCharge"
