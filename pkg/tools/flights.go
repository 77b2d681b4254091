package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyago/voyago/pkg/cache"
	"github.com/voyago/voyago/pkg/travel"
)

// SearchFlightsArgs are the model-supplied arguments for search_flights.
type SearchFlightsArgs struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	MaxPrice      int    `json:"max_price"`
}

// BookFlightArgs are the model-supplied arguments for book_flight.
type BookFlightArgs struct {
	BookingID     string `json:"booking_id"`
	PassengerName string `json:"passenger_name"`
}

func (r *Registry) searchFlights(ctx context.Context, store *cache.Store, a SearchFlightsArgs) Outcome {
	offers, err := r.api.SearchFlights(ctx, travel.FlightQuery{
		Origin:        strings.ToUpper(strings.TrimSpace(a.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(a.Destination)),
		DepartureDate: a.DepartureDate,
		MaxPrice:      a.MaxPrice,
	})
	r.observeProvider("search_flights", err)
	if err != nil {
		return classifyError(r.logger, "search_flights", err)
	}

	store.ReplaceFlights(offers)

	if len(offers) == 0 {
		return emptyOutcome("No flights available for the specified criteria.")
	}

	summaries := make([]FlightSummary, 0, len(offers))
	for _, offer := range offers {
		summaries = append(summaries, projectFlight(offer))
	}
	return Outcome{Status: StatusSuccess, Flights: summaries}
}

func (r *Registry) bookFlight(ctx context.Context, store *cache.Store, a BookFlightArgs) Outcome {
	offer, ok := store.Flight(a.BookingID)
	if !ok {
		return errorOutcome(fmt.Sprintf("Booking ID '%s' not found. Please search for flights first.", a.BookingID))
	}

	first, last, ok := splitPassengerName(a.PassengerName)
	if !ok {
		return errorOutcome("Please provide the passenger's full name (first and last).")
	}

	order, err := r.api.BookFlight(ctx, offer, []travel.Traveler{
		{
			ID:   "1",
			Name: travel.TravelerName{FirstName: first, LastName: last},
		},
	})
	r.observeProvider("book_flight", err)
	if err != nil {
		return classifyError(r.logger, "book_flight", err)
	}

	r.record(ctx, BookingRecord{
		Kind:      "flight",
		OrderID:   order.ID,
		Reference: offer.ID,
		Detail:    a.PassengerName,
	})

	return Outcome{
		Status:    StatusSuccess,
		Message:   "✅ Booking Confirmed! Booking ID: " + order.ID,
		BookingID: order.ID,
	}
}

// splitPassengerName splits a full name into first and last on the final
// space, so middle names stay with the first name.
func splitPassengerName(full string) (first, last string, ok bool) {
	full = strings.TrimSpace(full)
	idx := strings.LastIndex(full, " ")
	if idx <= 0 {
		return "", "", false
	}
	return full[:idx], full[idx+1:], true
}

// projectFlight reduces a full offer to the summary the model sees. The
// itinerary endpoints come from the first and last segments of the first
// itinerary.
func projectFlight(offer travel.FlightOffer) FlightSummary {
	s := FlightSummary{
		BookingID: offer.ID,
		Price:     offer.Price.Total,
		Currency:  offer.Price.Currency,
	}

	if len(offer.ValidatingAirlineCodes) > 0 {
		s.Airline = offer.ValidatingAirlineCodes[0]
	}

	if len(offer.Itineraries) > 0 {
		it := offer.Itineraries[0]
		s.Duration = formatISODuration(it.Duration)
		if n := len(it.Segments); n > 0 {
			s.DepartureAirport = it.Segments[0].Departure.IataCode
			s.DepartureTime = it.Segments[0].Departure.At
			s.ArrivalAirport = it.Segments[n-1].Arrival.IataCode
			s.ArrivalTime = it.Segments[n-1].Arrival.At
			s.Stops = n - 1
			if s.Airline == "" {
				s.Airline = it.Segments[0].CarrierCode
			}
		}
	}

	if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
		s.Cabin = offer.TravelerPricings[0].FareDetailsBySegment[0].Cabin
	}

	return s
}

// formatISODuration rewrites an ISO 8601 duration such as "PT5H30M" as
// "5h 30m". Unrecognized input is passed through unchanged.
func formatISODuration(iso string) string {
	rest, ok := strings.CutPrefix(iso, "PT")
	if !ok || rest == "" {
		return iso
	}

	var parts []string
	if h, tail, found := strings.Cut(rest, "H"); found {
		parts = append(parts, h+"h")
		rest = tail
	}
	if m, _, found := strings.Cut(rest, "M"); found {
		parts = append(parts, m+"m")
	}
	if len(parts) == 0 {
		return iso
	}
	return strings.Join(parts, " ")
}
