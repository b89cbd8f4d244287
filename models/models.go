package models

import "time"

// MenuItem is a single scraped menu entry. Price is nil when the page
// showed no parseable price for the item.
type MenuItem struct {
	Name  string `json:"name"`
	Price *int   `json:"price"`
}

// RestaurantInfo is the structured record produced by one successful
// scrape. It is immutable afterwards, except that a room's menu can be
// replaced through the manual-entry endpoint.
type RestaurantInfo struct {
	Name          string     `json:"name"`
	Type          string     `json:"type,omitempty"`
	Rating        string     `json:"rating,omitempty"`
	ReviewVisitor string     `json:"review_visitor,omitempty"`
	ReviewBlog    string     `json:"review_blog,omitempty"`
	ShortDesc     string     `json:"short_desc,omitempty"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	Parking       string     `json:"parking"`
	PlaceID       string     `json:"place_id,omitempty"`
	Menu          []MenuItem `json:"menu"`
}

// Beverage temperature options for drink orders.
const (
	BeverageNone = ""
	BeverageHot  = "Hot"
	BeverageIce  = "Ice"
)

// Order is one participant's line in a room. Never mutated after
// creation; only deleted by index.
type Order struct {
	ParticipantName string `json:"name"`
	MenuName        string `json:"menu"`
	Quantity        int    `json:"quantity"`
	Price           int    `json:"price"`
	BeverageOption  string `json:"beverage_option,omitempty"`
	SpecialRequest  string `json:"special_request,omitempty"`
}

// Room ties one scraped restaurant to its accumulated orders. The ID is
// the store key, not part of the persisted record.
type Room struct {
	ID             string         `json:"-"`
	RestaurantInfo RestaurantInfo `json:"restaurant_info"`
	Orders         []Order        `json:"orders"`
	CreatedAt      time.Time      `json:"created_at"`
}

// LogEntry is one order event in the monthly order log.
type LogEntry struct {
	Timestamp  time.Time     `json:"timestamp"`
	RoomID     string        `json:"room_id"`
	Restaurant LogRestaurant `json:"restaurant"`
	Order      LogOrder      `json:"order"`
	Session    LogSession    `json:"session_info"`
}

type LogRestaurant struct {
	Name     string `json:"name"`
	PlaceID  string `json:"place_id"`
	Address  string `json:"address"`
	Category string `json:"category"`
}

type LogOrder struct {
	UserName       string `json:"user_name"`
	Menu           string `json:"menu"`
	Quantity       int    `json:"quantity"`
	Price          int    `json:"price"`
	BeverageOption string `json:"beverage_option"`
	SpecialRequest string `json:"special_request"`
}

// LogSession carries a coarse client fingerprint, not the raw address.
type LogSession struct {
	UserAgent string `json:"user_agent"`
	IPHash    string `json:"ip_hash"`
}
