package travel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// FlightQuery is the input to a flight offer search.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	MaxPrice      int
	Adults        int
}

func (q FlightQuery) validate() error {
	if len(q.Origin) != 3 {
		return &ValidationError{Message: fmt.Sprintf("Invalid origin code: '%s'. Provide a valid 3-letter IATA airport code (e.g., 'JFK').", q.Origin)}
	}
	if len(q.Destination) != 3 {
		return &ValidationError{Message: fmt.Sprintf("Invalid destination code: '%s'. Provide a valid 3-letter IATA airport code (e.g., 'MAD').", q.Destination)}
	}
	if q.DepartureDate == "" {
		return &ValidationError{Message: "Missing departure date. Provide it in YYYY-MM-DD format."}
	}
	if q.MaxPrice < 0 {
		return &ValidationError{Message: "Maximum price cannot be negative."}
	}
	return nil
}

type flightOffersResponse struct {
	Data []FlightOffer `json:"data"`
}

// SearchFlights returns the flight offers matching the query. An empty slice
// with a nil error means the provider found no matches.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]FlightOffer, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}

	query := url.Values{}
	query.Set("originLocationCode", q.Origin)
	query.Set("destinationLocationCode", q.Destination)
	query.Set("departureDate", q.DepartureDate)
	query.Set("adults", strconv.Itoa(adults))
	if q.MaxPrice > 0 {
		query.Set("maxPrice", strconv.Itoa(q.MaxPrice))
	}

	var resp flightOffersResponse
	if err := c.getJSON(ctx, flightOffersPath, query, &resp); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("origin", q.Origin).
		Str("destination", q.Destination).
		Int("offers", len(resp.Data)).
		Msg("Flight search completed")

	return resp.Data, nil
}

type flightOrderRequest struct {
	Data flightOrderData `json:"data"`
}

type flightOrderData struct {
	Type         string        `json:"type"`
	FlightOffers []FlightOffer `json:"flightOffers"`
	Travelers    []Traveler    `json:"travelers"`
}

type flightOrderResponse struct {
	Data FlightOrder `json:"data"`
}

// BookFlight creates a flight order for a previously searched offer. The
// offer must be the full cached entity; the provider rejects reconstructed
// ones.
func (c *Client) BookFlight(ctx context.Context, offer FlightOffer, travelers []Traveler) (*FlightOrder, error) {
	if len(travelers) == 0 {
		return nil, &ValidationError{Message: "At least one traveler is required to book a flight."}
	}
	for _, t := range travelers {
		if t.Name.FirstName == "" || t.Name.LastName == "" {
			return nil, &ValidationError{Message: "Traveler first and last name are required."}
		}
	}

	body := flightOrderRequest{
		Data: flightOrderData{
			Type:         "flight-order",
			FlightOffers: []FlightOffer{offer},
			Travelers:    travelers,
		},
	}

	var resp flightOrderResponse
	if err := c.postJSON(ctx, flightOrdersPath, body, &resp); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("offer_id", offer.ID).
		Str("order_id", resp.Data.ID).
		Msg("Flight order created")

	return &resp.Data, nil
}
