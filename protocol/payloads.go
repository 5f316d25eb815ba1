package protocol

// Message is one decoded factory event. The concrete value is always one of
// the pointer types in this file; Decode fills in field defaults before
// returning it.
type Message interface {
	// Kind returns the discriminant the message was decoded under.
	Kind() string

	applyDefaults()
}

// DashboardOrder reports a change in an order's processing state.
type DashboardOrder struct {
	OrderID Text `json:"order_id"`
	State   Text `json:"state"`
	Color   Text `json:"color"`
}

// RawMaterialOrder reports raw material being ordered.
type RawMaterialOrder struct {
	Color    Text     `json:"color"`
	Quantity Quantity `json:"quantity"`
}

// FactoryStatus is a snapshot of active stations and where each piece is.
type FactoryStatus struct {
	ActiveStations []string          `json:"active_stations"`
	PieceLocations map[string]string `json:"piece_locations"`
}

// Stock is a snapshot of the high-bay warehouse. Layout maps slot id to
// its content; an empty content means the slot is free.
type Stock struct {
	Layout map[string]SlotContent `json:"layout"`
}

// NFCReader is a physical tag read.
type NFCReader struct {
	Timestamp Text `json:"timestamp"`
	PieceID   Text `json:"piece_id"`
	State     Text `json:"state"`
}

// ItemStored is the legacy single-purpose event: {"status": "stored", "color": ...}.
type ItemStored struct {
	Status string `json:"status"`
	Color  Text   `json:"color"`
}

// Unrecognized stands in for any message whose discriminant is unknown.
type Unrecognized struct {
	Type string
}

func (*DashboardOrder) Kind() string   { return TypeDashboardOrder }
func (*RawMaterialOrder) Kind() string { return TypeRawMaterialOrder }
func (*FactoryStatus) Kind() string    { return TypeFactoryStatus }
func (*Stock) Kind() string            { return TypeStock }
func (*NFCReader) Kind() string        { return TypeNFCReader }
func (*ItemStored) Kind() string       { return TypeItemStored }
func (u *Unrecognized) Kind() string   { return u.Type }

func (m *DashboardOrder) applyDefaults() {
	if m.Color == "" {
		m.Color = DefaultColor
	}
}

func (m *RawMaterialOrder) applyDefaults() {
	if m.Color == "" {
		m.Color = DefaultColor
	}
}

func (m *FactoryStatus) applyDefaults() {
	if m.ActiveStations == nil {
		m.ActiveStations = []string{}
	}
	if m.PieceLocations == nil {
		m.PieceLocations = map[string]string{}
	}
}

func (m *Stock) applyDefaults() {
	if m.Layout == nil {
		m.Layout = map[string]SlotContent{}
	}
}

func (*NFCReader) applyDefaults() {}

func (m *ItemStored) applyDefaults() {
	if m.Color == "" {
		m.Color = DefaultColor
	}
}

func (*Unrecognized) applyDefaults() {}
