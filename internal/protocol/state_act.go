package protocol

// STATE (bridge -> client), pushed every game tick.
//
// Blocks only carries the blocks that changed since the previous STATE (the
// whole scanned area on the first one). Entities and Windows are complete.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	DayTime         int64  `json:"day_time"`
	Hunger          int    `json:"hunger"`

	Self     EntityObs   `json:"self"`
	Entities []EntityObs `json:"entities"`
	Blocks   []BlockObs  `json:"blocks,omitempty"`

	// OpenedWindow is -1 when only the player inventory is open.
	OpenedWindow int16       `json:"opened_window"`
	Windows      []WindowObs `json:"windows"`
}

type EntityObs struct {
	ID         int        `json:"id"`
	Type       string     `json:"type"`
	Profession string     `json:"profession,omitempty"`
	Pos        [3]float64 `json:"pos"`
	Speed      [3]float64 `json:"speed,omitempty"`

	// Set for dropped item entities.
	Item *ItemStack `json:"item,omitempty"`
}

type BlockObs struct {
	Pos   [3]int            `json:"pos"`
	Name  string            `json:"name"`
	Props map[string]string `json:"props,omitempty"`
	// Entity holds block entity data, sign text for instance.
	Entity map[string]any `json:"entity,omitempty"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type WindowObs struct {
	ID                       int16     `json:"id"`
	Type                     string    `json:"type"`
	FirstPlayerInventorySlot int16     `json:"first_player_inventory_slot"`
	Slots                    []SlotObs `json:"slots"`
}

type SlotObs struct {
	Slot  int16  `json:"slot"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Action types of ACT.
const (
	ActGoTo           = "GO_TO"
	ActLookAt         = "LOOK_AT"
	ActOpenContainer  = "OPEN_CONTAINER"
	ActCloseContainer = "CLOSE_CONTAINER"
	ActSwapSlots      = "SWAP_SLOTS"
	ActPutOne         = "PUT_ONE"
	ActDropSlot       = "DROP_SLOT"
	ActDig            = "DIG"
	ActPlaceBlock     = "PLACE_BLOCK"
	ActInteractBlock  = "INTERACT_BLOCK"
	ActInteractEntity = "INTERACT_ENTITY"
	ActTrade          = "TRADE"
	ActCraft          = "CRAFT"
	ActEat            = "EAT"
	ActSetItemInHand  = "SET_ITEM_IN_HAND"
	ActSortInventory  = "SORT_INVENTORY"
	ActSay            = "SAY"
)

// ACT (client -> bridge) requests one blocking action. The bridge answers
// with an ACK carrying the same ID once the action is over.
//
// Slot, entity and trade fields are pointers: 0 is a valid slot and entity
// id, and a nil TradeIndex lets the bridge pick the offer by item.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"`

	Pos    *[3]int     `json:"pos,omitempty"`
	Target *[3]float64 `json:"target,omitempty"`
	Face   string      `json:"face,omitempty"`

	DistTolerance int `json:"dist_tolerance,omitempty"`
	MinEndDist    int `json:"min_end_dist,omitempty"`

	WindowID *int16 `json:"window_id,omitempty"`
	Src      *int16 `json:"src,omitempty"`
	Dst      *int16 `json:"dst,omitempty"`
	Slot     *int16 `json:"slot,omitempty"`

	EntityID  *int `json:"entity_id,omitempty"`
	Swing     bool `json:"swing,omitempty"`
	Animation bool `json:"animation,omitempty"`

	Item       string `json:"item,omitempty"`
	Buy        bool   `json:"buy,omitempty"`
	TradeIndex *int   `json:"trade_index,omitempty"`
	Hand       string `json:"hand,omitempty"`
	Wait       bool   `json:"wait,omitempty"`

	Recipe         *[3][3]string `json:"recipe,omitempty"`
	AllowInventory bool          `json:"allow_inventory,omitempty"`

	Text string `json:"text,omitempty"`
}
