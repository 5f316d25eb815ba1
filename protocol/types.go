package protocol

import "strings"

// Message type discriminants carried in the "type" field.
const (
	TypeDashboardOrder   = "dashboardOrder"
	TypeRawMaterialOrder = "rawMaterialOrder"
	TypeFactoryStatus    = "factoryStatus"
	TypeStock            = "stock"
	TypeNFCReader        = "nfcReader"

	// TypeItemStored is the kind given to legacy messages that carry a
	// "status" field and no "type".
	TypeItemStored = "itemStored"
)

// StatusStored is the legacy status value that counts as a stored item.
const StatusStored = "stored"

// DefaultColor replaces a missing color.
const DefaultColor = "unknown"

// Bus topics that imply a message type when the payload has none.
const (
	TopicDashboardOrder = "dashboard/order"
	TopicFactoryStatus  = "factory/status"
	TopicNFCReader      = "nfc/reader"
	TopicWarehouseStock = "warehouse/stock"
	TopicRawMaterial    = "warehouse/raw_material"
)

var topicTypes = map[string]string{
	TopicDashboardOrder: TypeDashboardOrder,
	TopicFactoryStatus:  TypeFactoryStatus,
	TopicNFCReader:      TypeNFCReader,
	TopicWarehouseStock: TypeStock,
	TopicRawMaterial:    TypeRawMaterialOrder,
}

// TypeForTopic maps a bus topic to the message type it carries. Kafka-style
// dotted names are accepted, and a topic matches when it ends with one of the
// known suffixes (e.g. "plant-a/warehouse/stock").
func TypeForTopic(topic string) (string, bool) {
	topic = strings.Trim(strings.ReplaceAll(topic, ".", "/"), "/")
	if topic == "" {
		return "", false
	}
	if t, ok := topicTypes[topic]; ok {
		return t, true
	}
	for suffix, t := range topicTypes {
		if strings.HasSuffix(topic, "/"+suffix) {
			return t, true
		}
	}
	return "", false
}
