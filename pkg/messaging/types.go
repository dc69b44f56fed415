package messaging

type ChangeTopic string

const (
	ProductsChanged ChangeTopic = "products_changed"
	Tracking        ChangeTopic = "tracking"
)

const (
	ServicePrefix = "facets"
	GlobalPrefix  = "global"
)

// ProductChange is published when the product collection behind the catalog API was updated.
// An empty id list means everything may have changed.
type ProductChange struct {
	Ids    []string `json:"ids,omitempty"`
	Reason string   `json:"reason,omitempty"`
}
