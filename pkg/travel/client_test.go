package travel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a minimal Amadeus stand-in: a token endpoint plus
// per-path handlers.
type fakeProvider struct {
	mux        *http.ServeMux
	server     *httptest.Server
	tokenCalls int
	apiCalls   int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	f := &fakeProvider{mux: http.NewServeMux()}
	f.mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   1799,
		})
	})
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeProvider) handle(path string, handler http.HandlerFunc) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		f.apiCalls++
		handler(w, r)
	})
}

func (f *fakeProvider) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      f.server.URL,
		Timeout:      5 * time.Second,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{ClientID: "id"})
	assert.Error(t, err)
	_, err = NewClient(Config{ClientSecret: "secret"})
	assert.Error(t, err)
}

func TestSearchFlights(t *testing.T) {
	t.Run("sends query and bearer token", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			q := r.URL.Query()
			assert.Equal(t, "JFK", q.Get("originLocationCode"))
			assert.Equal(t, "MAD", q.Get("destinationLocationCode"))
			assert.Equal(t, "2026-10-01", q.Get("departureDate"))
			assert.Equal(t, "1", q.Get("adults"))
			assert.Equal(t, "500", q.Get("maxPrice"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{
					{"type": "flight-offer", "id": "1", "price": map[string]string{"currency": "EUR", "total": "420.00"}},
				},
			})
		})

		offers, err := f.client(t).SearchFlights(context.Background(), FlightQuery{
			Origin:        "JFK",
			Destination:   "MAD",
			DepartureDate: "2026-10-01",
			MaxPrice:      500,
		})
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "420.00", offers[0].Price.Total)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		})

		offers, err := f.client(t).SearchFlights(context.Background(), FlightQuery{
			Origin: "JFK", Destination: "MAD", DepartureDate: "2026-10-01",
		})
		require.NoError(t, err)
		assert.Empty(t, offers)
	})

	t.Run("validation rejects before any network call", func(t *testing.T) {
		f := newFakeProvider(t)

		_, err := f.client(t).SearchFlights(context.Background(), FlightQuery{
			Origin: "NEWYORK", Destination: "MAD", DepartureDate: "2026-10-01",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "NEWYORK")
		assert.Zero(t, f.tokenCalls)
		assert.Zero(t, f.apiCalls)
	})

	t.Run("non-2xx becomes ProviderError", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"detail":"bad date"}]}`))
		})

		_, err := f.client(t).SearchFlights(context.Background(), FlightQuery{
			Origin: "JFK", Destination: "MAD", DepartureDate: "2026-10-01",
		})
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
		assert.Contains(t, perr.Detail, "bad date")
	})
}

func TestBookFlight(t *testing.T) {
	t.Run("sends the cached offer and travelers verbatim", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v1/booking/flight-orders", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			data := body["data"].(map[string]interface{})
			assert.Equal(t, "flight-order", data["type"])

			offers := data["flightOffers"].([]interface{})
			require.Len(t, offers, 1)
			assert.Equal(t, "7", offers[0].(map[string]interface{})["id"])

			travelers := data["travelers"].([]interface{})
			require.Len(t, travelers, 1)
			name := travelers[0].(map[string]interface{})["name"].(map[string]interface{})
			assert.Equal(t, "John", name["firstName"])
			assert.Equal(t, "Smith", name["lastName"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"type": "flight-order", "id": "ORDER123"},
			})
		})

		order, err := f.client(t).BookFlight(context.Background(),
			FlightOffer{Type: "flight-offer", ID: "7"},
			[]Traveler{{ID: "1", Name: TravelerName{FirstName: "John", LastName: "Smith"}}},
		)
		require.NoError(t, err)
		assert.Equal(t, "ORDER123", order.ID)
	})

	t.Run("requires travelers", func(t *testing.T) {
		f := newFakeProvider(t)
		_, err := f.client(t).BookFlight(context.Background(), FlightOffer{ID: "7"}, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Zero(t, f.apiCalls)
	})
}

func TestSearchHotels(t *testing.T) {
	t.Run("city search", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v1/reference-data/locations/hotels/by-city", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "NYC", q.Get("cityCode"))
			assert.Equal(t, "5", q.Get("radius"))
			assert.Equal(t, "KM", q.Get("radiusUnit"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{{"hotelId": "H1", "name": "Midtown"}},
			})
		})

		hotels, err := f.client(t).SearchHotels(context.Background(), HotelQuery{CityCode: "NYC"})
		require.NoError(t, err)
		require.Len(t, hotels, 1)
		assert.Equal(t, "H1", hotels[0].HotelID)
	})

	t.Run("geocode search", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v1/reference-data/locations/hotels/by-geocode", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "40.7", q.Get("latitude"))
			assert.Equal(t, "-74", q.Get("longitude"))
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		})

		lat, lon := 40.7, -74.0
		_, err := f.client(t).SearchHotels(context.Background(), HotelQuery{Latitude: &lat, Longitude: &lon})
		require.NoError(t, err)
	})

	t.Run("hotel id search", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v1/reference-data/locations/hotels/by-hotels", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "H1,H2", r.URL.Query().Get("hotelIds"))
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		})

		_, err := f.client(t).SearchHotels(context.Background(), HotelQuery{HotelIDs: []string{"H1", "H2"}})
		require.NoError(t, err)
	})

	t.Run("rejects invalid city code before network", func(t *testing.T) {
		f := newFakeProvider(t)
		_, err := f.client(t).SearchHotels(context.Background(), HotelQuery{CityCode: "NY"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Invalid city code: 'NY'. Provide a valid 3-letter IATA city code (e.g., 'SFO').", verr.Message)
		assert.Zero(t, f.apiCalls)
	})

	t.Run("rejects ambiguous discriminators", func(t *testing.T) {
		f := newFakeProvider(t)
		lat, lon := 1.0, 2.0
		_, err := f.client(t).SearchHotels(context.Background(), HotelQuery{CityCode: "NYC", Latitude: &lat, Longitude: &lon})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		_, err = f.client(t).SearchHotels(context.Background(), HotelQuery{})
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Please provide city code, geocode, or hotel ID.", verr.Message)
	})

	t.Run("rejects half a geocode", func(t *testing.T) {
		f := newFakeProvider(t)
		lat := 1.0
		_, err := f.client(t).SearchHotels(context.Background(), HotelQuery{Latitude: &lat})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestSearchHotelOffersDateValidation(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client(t)
	c.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	cases := []struct {
		name     string
		checkIn  string
		checkOut string
		message  string
	}{
		{"check-in in the past", "2026-08-28", "2026-09-01", "Check-in date must be in the future."},
		{"check-out before check-in", "2026-09-05", "2026-09-02", "Check-out date must be after the check-in date."},
		{"check-out equals check-in", "2026-09-05", "2026-09-05", "Check-out date must be after the check-in date."},
		{"missing dates", "", "", "Please provide valid check-in and check-out dates."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.SearchHotelOffers(context.Background(), OfferQuery{
				HotelIDs:     []string{"H1"},
				CheckInDate:  tc.checkIn,
				CheckOutDate: tc.checkOut,
			})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.message, verr.Message)
		})
	}
	assert.Zero(t, f.apiCalls)

	t.Run("check-in today is accepted", func(t *testing.T) {
		f.handle("/v3/shopping/hotel-offers", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2026-08-29", r.URL.Query().Get("checkInDate"))
			assert.Equal(t, "2", r.URL.Query().Get("adults"))
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		})

		_, err := c.SearchHotelOffers(context.Background(), OfferQuery{
			HotelIDs:     []string{"H1"},
			CheckInDate:  "2026-08-29",
			CheckOutDate: "2026-08-31",
			Adults:       2,
		})
		require.NoError(t, err)
	})
}

func TestBookHotel(t *testing.T) {
	guests := []Guest{
		{TID: 1, Title: "MR", FirstName: "John", LastName: "Smith", Phone: "+1-555-0100", Email: "john@example.com"},
		{TID: 2, Title: "MRS", FirstName: "Jane", LastName: "Smith", Phone: "+1-555-0101", Email: "jane@example.com"},
	}

	t.Run("builds the order payload", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v2/booking/hotel-orders", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			data := body["data"].(map[string]interface{})

			assert.Equal(t, "hotel-order", data["type"])
			assert.Len(t, data["guests"], 2)

			assocs := data["roomAssociations"].([]interface{})
			require.Len(t, assocs, 1)
			assoc := assocs[0].(map[string]interface{})
			assert.Equal(t, "OFF1", assoc["hotelOfferId"])
			refs := assoc["guestReferences"].([]interface{})
			require.Len(t, refs, 2)
			assert.Equal(t, "1", refs[0].(map[string]interface{})["guestReference"])
			assert.Equal(t, "2", refs[1].(map[string]interface{})["guestReference"])

			agent := data["travelAgent"].(map[string]interface{})["contact"].(map[string]interface{})
			assert.Equal(t, "john@example.com", agent["email"])

			payment := data["payment"].(map[string]interface{})
			assert.Equal(t, "CREDIT_CARD", payment["method"])
			card := payment["paymentCard"].(map[string]interface{})["paymentCardInfo"].(map[string]interface{})
			assert.Equal(t, "VI", card["vendorCode"])
			assert.Equal(t, "4111111111111111", card["cardNumber"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"type": "hotel-order", "id": "HO_123"},
			})
		})

		order, err := f.client(t).BookHotel(context.Background(), "OFF1", guests, Payment{
			VendorCode: "VI",
			CardNumber: "4111111111111111",
			Expiry:     "2030-01",
			HolderName: "JOHN SMITH",
		})
		require.NoError(t, err)
		assert.Equal(t, "HO_123", order.ID)
	})

	t.Run("omits payment without a configured card", func(t *testing.T) {
		f := newFakeProvider(t)
		f.handle("/v2/booking/hotel-orders", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			data := body["data"].(map[string]interface{})
			_, hasPayment := data["payment"]
			assert.False(t, hasPayment)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"type": "hotel-order", "id": "HO_124"},
			})
		})

		_, err := f.client(t).BookHotel(context.Background(), "OFF1", guests, Payment{})
		require.NoError(t, err)
	})

	t.Run("requires offer id and guests", func(t *testing.T) {
		f := newFakeProvider(t)
		c := f.client(t)

		var verr *ValidationError
		_, err := c.BookHotel(context.Background(), "", guests, Payment{})
		require.ErrorAs(t, err, &verr)

		_, err = c.BookHotel(context.Background(), "OFF1", nil, Payment{})
		require.ErrorAs(t, err, &verr)

		_, err = c.BookHotel(context.Background(), "OFF1", []Guest{{FirstName: "John"}}, Payment{})
		require.ErrorAs(t, err, &verr)

		assert.Zero(t, f.apiCalls)
	})
}

func TestTokenReuse(t *testing.T) {
	f := newFakeProvider(t)
	f.handle("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	c := f.client(t)
	q := FlightQuery{Origin: "JFK", Destination: "MAD", DepartureDate: "2026-10-01"}

	_, err := c.SearchFlights(context.Background(), q)
	require.NoError(t, err)
	_, err = c.SearchFlights(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, f.tokenCalls)
	assert.Equal(t, 2, f.apiCalls)
}

func TestTokenFailureBecomesAuthError(t *testing.T) {
	mux := http.NewServeMux()
	tokenCalls := 0
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "bad",
		BaseURL:      server.URL,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = c.SearchFlights(context.Background(), FlightQuery{
		Origin: "JFK", Destination: "MAD", DepartureDate: "2026-10-01",
	})

	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)
	// One initial attempt plus one bounded retry.
	assert.Equal(t, 2, tokenCalls)
}
