package model

// RevenueSummary aggregates paid bookings.
type RevenueSummary struct {
	Total   float64 `json:"total" bson:"total"`
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

// CustomerDashboard is the customer's view: their own bookings and spend.
type CustomerDashboard struct {
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	TotalSpent       float64          `json:"totalSpent"`
	RecentBookings   []*Booking       `json:"recentBookings"`
}

// OwnerDashboard covers everything booked against the owner's hangars.
type OwnerDashboard struct {
	HangarCount      int64            `json:"hangarCount"`
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	Revenue          RevenueSummary   `json:"revenue"`
	Rating           RatingSummary    `json:"rating"`
	RecentBookings   []*Booking       `json:"recentBookings"`
}

// AdminDashboard is the platform-wide rollup.
type AdminDashboard struct {
	UsersByRole      map[string]int64 `json:"usersByRole"`
	TotalHangars     int64            `json:"totalHangars"`
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	Revenue          RevenueSummary   `json:"revenue"`
	CompletionRate   float64          `json:"completionRate"`
	RecentBookings   []*Booking       `json:"recentBookings"`
}
