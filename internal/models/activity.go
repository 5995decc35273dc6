package models

import (
	"errors"
	"time"
)

// ActivityType discriminates the two activity kinds. An activity is either
// a single-location EVENT or an origin/destination TRIP; the Event and Trip
// detail structs below form a tagged union over this field.
type ActivityType string

const (
	TypeEvent ActivityType = "EVENT"
	TypeTrip  ActivityType = "TRIP"
)

// EventCategory classifies EVENT activities.
type EventCategory string

const (
	CategoryRestaurant    EventCategory = "RESTAURANT"
	CategoryMuseum        EventCategory = "MUSEUM"
	CategoryBeach         EventCategory = "BEACH"
	CategoryPark          EventCategory = "PARK"
	CategoryAttraction    EventCategory = "ATTRACTION"
	CategoryAccommodation EventCategory = "ACCOMMODATION"
	CategoryShopping      EventCategory = "SHOPPING"
	CategoryEntertainment EventCategory = "ENTERTAINMENT"
	CategorySport         EventCategory = "SPORT"
	CategoryOther         EventCategory = "OTHER"
)

// TransportMode classifies TRIP activities.
type TransportMode string

const (
	TransportFlight TransportMode = "FLIGHT"
	TransportTrain  TransportMode = "TRAIN"
	TransportBus    TransportMode = "BUS"
	TransportCar    TransportMode = "CAR"
	TransportFerry  TransportMode = "FERRY"
	TransportBike   TransportMode = "BIKE"
	TransportWalk   TransportMode = "WALK"
	TransportOther  TransportMode = "OTHER"
)

// ParticipantStatus is a member's RSVP on an activity.
type ParticipantStatus string

const (
	StatusConfirmed ParticipantStatus = "CONFIRMED"
	StatusMaybe     ParticipantStatus = "MAYBE"
	StatusDeclined  ParticipantStatus = "DECLINED"
)

var (
	ErrInvalidActivityType = errors.New("activity type must be EVENT or TRIP")
	ErrDetailMismatch      = errors.New("activity details do not match its type")
	ErrEmptyName           = errors.New("activity name cannot be empty")
	ErrMissingStartDate    = errors.New("activity start date is required")
)

// Location is embedded place data for events and trip endpoints.
type Location struct {
	Name      string   `json:"name,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PlaceID   string   `json:"placeId,omitempty"`
}

// EventDetails holds the EVENT-specific fields.
type EventDetails struct {
	Location         *Location     `json:"location,omitempty"`
	Category         EventCategory `json:"category"`
	BookingURL       string        `json:"bookingUrl,omitempty"`
	BookingReference string        `json:"bookingReference,omitempty"`
	ReservationTime  string        `json:"reservationTime,omitempty"` // HH:mm
}

// TripDetails holds the TRIP-specific fields.
type TripDetails struct {
	Origin           *Location     `json:"origin,omitempty"`
	Destination      *Location     `json:"destination,omitempty"`
	TransportMode    TransportMode `json:"transportMode"`
	DepartureTime    string        `json:"departureTime,omitempty"` // HH:mm
	ArrivalTime      string        `json:"arrivalTime,omitempty"`   // HH:mm
	BookingReference string        `json:"bookingReference,omitempty"`
}

// Activity is a calendar entry owned by a group. Exactly one of Event or
// Trip is non-nil, matching Type; Validate enforces this.
type Activity struct {
	ID          int64        `json:"id"`
	GroupID     int64        `json:"groupId"`
	Type        ActivityType `json:"activityType"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`

	// StartDate is an ISO date (YYYY-MM-DD); EndDate is set for multi-day
	// activities. StartTime/EndTime are HH:mm, optional.
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	IsCompleted  bool  `json:"isCompleted"`
	DisplayOrder int   `json:"displayOrder"`
	CreatedBy    int64 `json:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Event *EventDetails `json:"event,omitempty"`
	Trip  *TripDetails  `json:"trip,omitempty"`

	Participants []ActivityParticipant `json:"participants,omitempty"`
}

// IsEvent reports whether the activity is a single-location event.
func (a *Activity) IsEvent() bool {
	return a.Type == TypeEvent
}

// IsTrip reports whether the activity is an origin/destination trip.
func (a *Activity) IsTrip() bool {
	return a.Type == TypeTrip
}

// Validate checks the tagged-union invariant and required fields.
func (a *Activity) Validate() error {
	switch a.Type {
	case TypeEvent:
		if a.Event == nil || a.Trip != nil {
			return ErrDetailMismatch
		}
	case TypeTrip:
		if a.Trip == nil || a.Event != nil {
			return ErrDetailMismatch
		}
	default:
		return ErrInvalidActivityType
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.StartDate == "" {
		return ErrMissingStartDate
	}
	return nil
}

// ActivityParticipant is one member's RSVP on an activity.
type ActivityParticipant struct {
	ID            int64             `json:"id"`
	ActivityID    int64             `json:"activityId"`
	GroupMemberID int64             `json:"groupMemberId"`
	UserName      string            `json:"userName,omitempty"`
	Status        ParticipantStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
