package tools

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/voyago/voyago/pkg/travel"
)

// Status tags a tool outcome.
type Status string

const (
	// StatusSuccess means the operation succeeded with at least one result.
	StatusSuccess Status = "success"
	// StatusEmpty means a valid request matched nothing; not an error.
	StatusEmpty Status = "empty"
	// StatusError means the request was rejected or the provider failed.
	StatusError Status = "error"
)

// Outcome is the structured payload of a tool message. Exactly one of the
// entity slices is populated on success, depending on the tool.
type Outcome struct {
	Status    Status          `json:"status"`
	Message   string          `json:"message,omitempty"`
	Flights   []FlightSummary `json:"flights,omitempty"`
	Hotels    []HotelSummary  `json:"hotels,omitempty"`
	Offers    []OfferSummary  `json:"offers,omitempty"`
	BookingID string          `json:"booking_id,omitempty"`
}

// FlightSummary is the projection of a cached flight offer shown to the
// model. The full entity never leaves the cache.
type FlightSummary struct {
	BookingID        string `json:"booking_id"`
	Airline          string `json:"airline"`
	Price            string `json:"price"`
	Currency         string `json:"currency"`
	DepartureAirport string `json:"departure_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalTime      string `json:"arrival_time"`
	Duration         string `json:"duration"`
	Stops            int    `json:"stops"`
	Cabin            string `json:"cabin,omitempty"`
}

// HotelSummary is the projection of a cached hotel record.
type HotelSummary struct {
	HotelID   string   `json:"hotel_id"`
	Name      string   `json:"name"`
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
}

// OfferSummary is the projection of a cached room offer.
type OfferSummary struct {
	OfferID       string `json:"offer_id"`
	HotelID       string `json:"hotel_id"`
	Name          string `json:"name"`
	City          string `json:"city,omitempty"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	Price         string `json:"price"`
	Currency      string `json:"currency"`
	RoomType      string `json:"room_type,omitempty"`
	PaymentPolicy string `json:"payment_policy,omitempty"`
}

func errorOutcome(message string) Outcome {
	return Outcome{Status: StatusError, Message: message}
}

func emptyOutcome(message string) Outcome {
	return Outcome{Status: StatusEmpty, Message: message}
}

// classifyError turns an adapter error into a model-facing outcome.
// Validation messages are surfaced as-is; provider and transport details are
// logged and replaced with a generic user-safe message.
func classifyError(logger zerolog.Logger, op string, err error) Outcome {
	switch e := err.(type) {
	case *travel.ValidationError:
		return errorOutcome(e.Message)
	case *travel.AuthError:
		logger.Error().Err(e).Str("operation", op).Msg("Provider authentication failed")
		return errorOutcome(travel.UserSafeMessage)
	case *travel.ProviderError:
		logger.Error().
			Int("status", e.StatusCode).
			Str("operation", op).
			Str("detail", e.Detail).
			Msg("Provider rejected request")
		return errorOutcome(travel.UserSafeMessage)
	default:
		logger.Error().Err(err).Str("operation", op).Msg("Provider call failed")
		return errorOutcome(travel.UserSafeMessage)
	}
}

// marshalOutcome serializes an outcome, falling back to a minimal literal if
// marshaling itself fails.
func marshalOutcome(out Outcome) json.RawMessage {
	payload, err := json.Marshal(out)
	if err != nil {
		return json.RawMessage(`{"status":"error","message":"internal error"}`)
	}
	return payload
}
