package travel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	hotelSearchRadius     = 5
	hotelSearchRadiusUnit = "KM"
)

// HotelQuery selects exactly one search discriminator: city code, geocode,
// or an explicit hotel id list.
type HotelQuery struct {
	CityCode  string
	Latitude  *float64
	Longitude *float64
	HotelIDs  []string
}

func (q HotelQuery) validate() error {
	hasCity := q.CityCode != ""
	hasGeo := q.Latitude != nil && q.Longitude != nil
	hasIDs := len(q.HotelIDs) > 0

	if (q.Latitude == nil) != (q.Longitude == nil) {
		return &ValidationError{Message: "Geocode search requires both latitude and longitude."}
	}

	count := 0
	for _, set := range []bool{hasCity, hasGeo, hasIDs} {
		if set {
			count++
		}
	}
	if count == 0 {
		return &ValidationError{Message: "Please provide city code, geocode, or hotel ID."}
	}
	if count > 1 {
		return &ValidationError{Message: "Provide only one of city code, geocode, or hotel IDs."}
	}

	if hasCity && len(q.CityCode) != 3 {
		return &ValidationError{Message: fmt.Sprintf("Invalid city code: '%s'. Provide a valid 3-letter IATA city code (e.g., 'SFO').", q.CityCode)}
	}
	return nil
}

type hotelListResponse struct {
	Data []Hotel `json:"data"`
}

// SearchHotels returns the hotels matching the query in provider order.
func (c *Client) SearchHotels(ctx context.Context, q HotelQuery) ([]Hotel, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	var path string
	query := url.Values{}

	switch {
	case len(q.HotelIDs) > 0:
		path = hotelsByIDsPath
		query.Set("hotelIds", strings.Join(q.HotelIDs, ","))
	case q.Latitude != nil:
		path = hotelsByGeoPath
		query.Set("latitude", strconv.FormatFloat(*q.Latitude, 'f', -1, 64))
		query.Set("longitude", strconv.FormatFloat(*q.Longitude, 'f', -1, 64))
		query.Set("radius", strconv.Itoa(hotelSearchRadius))
		query.Set("radiusUnit", hotelSearchRadiusUnit)
	default:
		path = hotelsByCityPath
		query.Set("cityCode", q.CityCode)
		query.Set("radius", strconv.Itoa(hotelSearchRadius))
		query.Set("radiusUnit", hotelSearchRadiusUnit)
	}

	var resp hotelListResponse
	if err := c.getJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	c.logger.Info().Int("hotels", len(resp.Data)).Msg("Hotel search completed")

	return resp.Data, nil
}

// OfferQuery is the input to a hotel offer search.
type OfferQuery struct {
	HotelIDs     []string
	CheckInDate  string
	CheckOutDate string
	Adults       int
}

func (c *Client) validateOfferQuery(q OfferQuery) error {
	if len(q.HotelIDs) == 0 {
		return &ValidationError{Message: "Missing hotel IDs."}
	}
	if q.CheckInDate == "" || q.CheckOutDate == "" {
		return &ValidationError{Message: "Please provide valid check-in and check-out dates."}
	}

	// Dates are ISO YYYY-MM-DD, so lexicographic comparison is date order.
	today := c.now().Format("2006-01-02")
	if q.CheckInDate < today {
		return &ValidationError{Message: "Check-in date must be in the future."}
	}
	if q.CheckOutDate <= q.CheckInDate {
		return &ValidationError{Message: "Check-out date must be after the check-in date."}
	}
	return nil
}

type hotelOffersResponse struct {
	Data []HotelOfferSet `json:"data"`
}

// SearchHotelOffers returns room offers for the given hotels. Dates are
// validated before any network call.
func (c *Client) SearchHotelOffers(ctx context.Context, q OfferQuery) ([]HotelOfferSet, error) {
	if err := c.validateOfferQuery(q); err != nil {
		return nil, err
	}

	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}

	query := url.Values{}
	query.Set("hotelIds", strings.Join(q.HotelIDs, ","))
	query.Set("checkInDate", q.CheckInDate)
	query.Set("checkOutDate", q.CheckOutDate)
	query.Set("adults", strconv.Itoa(adults))

	var resp hotelOffersResponse
	if err := c.getJSON(ctx, hotelOffersPath, query, &resp); err != nil {
		return nil, err
	}

	c.logger.Info().
		Strs("hotel_ids", q.HotelIDs).
		Int("offer_sets", len(resp.Data)).
		Msg("Hotel offer search completed")

	return resp.Data, nil
}

type hotelOrderRequest struct {
	Data hotelOrderData `json:"data"`
}

type hotelOrderData struct {
	Type             string            `json:"type"`
	Guests           []Guest           `json:"guests"`
	RoomAssociations []roomAssociation `json:"roomAssociations"`
	TravelAgent      travelAgent       `json:"travelAgent"`
	Payment          *paymentData      `json:"payment,omitempty"`
}

type roomAssociation struct {
	GuestReferences []guestReference `json:"guestReferences"`
	HotelOfferID    string           `json:"hotelOfferId"`
}

type guestReference struct {
	GuestReference string `json:"guestReference"`
}

type travelAgent struct {
	Contact agentContact `json:"contact"`
}

type agentContact struct {
	Email string `json:"email"`
}

type paymentData struct {
	Method      string      `json:"method"`
	PaymentCard paymentCard `json:"paymentCard"`
}

type paymentCard struct {
	PaymentCardInfo paymentCardInfo `json:"paymentCardInfo"`
}

type paymentCardInfo struct {
	VendorCode string `json:"vendorCode"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	HolderName string `json:"holderName"`
}

type hotelOrderResponse struct {
	Data HotelOrder `json:"data"`
}

// BookHotel creates a hotel order for a previously searched offer.
func (c *Client) BookHotel(ctx context.Context, offerID string, guests []Guest, payment Payment) (*HotelOrder, error) {
	if offerID == "" {
		return nil, &ValidationError{Message: "Missing hotel offer ID. Please select a hotel before booking."}
	}
	if len(guests) == 0 {
		return nil, &ValidationError{Message: "Missing guest information."}
	}
	for _, g := range guests {
		if g.FirstName == "" || g.LastName == "" || g.Email == "" {
			return nil, &ValidationError{Message: "Each guest requires a first name, last name, and email address."}
		}
	}

	refs := make([]guestReference, len(guests))
	for i := range guests {
		refs[i] = guestReference{GuestReference: strconv.Itoa(i + 1)}
	}

	data := hotelOrderData{
		Type:   "hotel-order",
		Guests: guests,
		RoomAssociations: []roomAssociation{
			{GuestReferences: refs, HotelOfferID: offerID},
		},
		TravelAgent: travelAgent{Contact: agentContact{Email: guests[0].Email}},
	}

	if payment.CardNumber != "" {
		method := payment.Method
		if method == "" {
			method = "CREDIT_CARD"
		}
		holder := payment.HolderName
		if holder == "" {
			holder = guests[0].FirstName + " " + guests[0].LastName
		}
		data.Payment = &paymentData{
			Method: method,
			PaymentCard: paymentCard{
				PaymentCardInfo: paymentCardInfo{
					VendorCode: payment.VendorCode,
					CardNumber: payment.CardNumber,
					ExpiryDate: payment.Expiry,
					HolderName: holder,
				},
			},
		}
	}

	var resp hotelOrderResponse
	if err := c.postJSON(ctx, hotelOrdersPath, hotelOrderRequest{Data: data}, &resp); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("offer_id", offerID).
		Str("order_id", resp.Data.ID).
		Msg("Hotel order created")

	return &resp.Data, nil
}
