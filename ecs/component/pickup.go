package component

type PickupKind string

const (
	PickupHeart          PickupKind = "heart"
	PickupHeartContainer PickupKind = "heart_container"
	PickupRupee          PickupKind = "rupee"
	PickupArrows         PickupKind = "arrows"
	PickupBombs          PickupKind = "bombs"
)

// Pickup is collected when the player overlaps it.
type Pickup struct {
	Kind   PickupKind
	Amount int
}

var PickupComponent = NewComponent[Pickup]()
