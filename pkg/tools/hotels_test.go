package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/voyago/pkg/chat"
	"github.com/voyago/voyago/pkg/travel"
)

func fakeHotels(n int) []travel.Hotel {
	hotels := make([]travel.Hotel, 0, n)
	for i := 0; i < n; i++ {
		hotels = append(hotels, travel.Hotel{
			HotelID:  fmt.Sprintf("H%02d", i),
			Name:     fmt.Sprintf("Hotel %d", i),
			IataCode: "NYC",
		})
	}
	return hotels
}

func TestSearchHotelsTool(t *testing.T) {
	t.Run("returns the first batch and pages through the rest", func(t *testing.T) {
		api := &fakeAPI{hotels: fakeHotels(12)}
		d, _, _ := newTestDispatcher(t, api)

		out := dispatch(t, d, "search_hotels", `{"city_code":"nyc"}`)
		require.Equal(t, StatusSuccess, out.Status)
		require.Len(t, out.Hotels, 5)
		assert.Equal(t, "H00", out.Hotels[0].HotelID)
		assert.Equal(t, "NYC", out.Hotels[0].City)
		assert.Contains(t, out.Message, "5 of 12")

		out = dispatch(t, d, "get_next_hotel_results", `{}`)
		require.Equal(t, StatusSuccess, out.Status)
		require.Len(t, out.Hotels, 5)
		assert.Equal(t, "H05", out.Hotels[0].HotelID)

		out = dispatch(t, d, "get_next_hotel_results", `{}`)
		require.Equal(t, StatusSuccess, out.Status)
		require.Len(t, out.Hotels, 2)

		out = dispatch(t, d, "get_next_hotel_results", `{}`)
		assert.Equal(t, StatusEmpty, out.Status)
		assert.Equal(t, "No more hotels available.", out.Message)

		// Pagination is served from the cache: one provider call total.
		assert.Equal(t, 1, api.calls)
	})

	t.Run("empty result set", func(t *testing.T) {
		d, _, _ := newTestDispatcher(t, &fakeAPI{})

		out := dispatch(t, d, "search_hotels", `{"city_code":"NYC"}`)
		assert.Equal(t, StatusEmpty, out.Status)
		assert.Equal(t, "No hotels available for the specified criteria.", out.Message)

		out = dispatch(t, d, "get_next_hotel_results", `{}`)
		assert.Equal(t, StatusEmpty, out.Status)
	})

	t.Run("new search resets pagination", func(t *testing.T) {
		api := &fakeAPI{hotels: fakeHotels(8)}
		d, _, _ := newTestDispatcher(t, api)

		dispatch(t, d, "search_hotels", `{"city_code":"NYC"}`)
		dispatch(t, d, "get_next_hotel_results", `{}`)

		out := dispatch(t, d, "search_hotels", `{"city_code":"NYC"}`)
		require.Equal(t, StatusSuccess, out.Status)
		assert.Equal(t, "H00", out.Hotels[0].HotelID)
	})

	// The model may emit several hotel tool calls in one assistant turn and
	// they run in parallel goroutines against the same session cache. Run
	// with the race detector enabled.
	t.Run("parallel calls on one session", func(t *testing.T) {
		api := &fakeAPI{hotels: fakeHotels(12)}
		d, store, _ := newTestDispatcher(t, api)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				d.Dispatch(context.Background(), chat.ToolCall{
					ID:        fmt.Sprintf("call_%d", i),
					Name:      "search_hotels",
					Arguments: json.RawMessage(`{"city_code":"NYC"}`),
				})
				d.Dispatch(context.Background(), chat.ToolCall{
					ID:        fmt.Sprintf("call_%d_next", i),
					Name:      "get_next_hotel_results",
					Arguments: json.RawMessage(`{}`),
				})
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 12, store.HotelCount())
		assert.Equal(t, 4, api.callCount())
	})

	t.Run("projects geocode and distance", func(t *testing.T) {
		api := &fakeAPI{hotels: []travel.Hotel{{
			HotelID: "H1",
			Name:    "Waterfront",
			GeoCode: &travel.GeoCode{Latitude: 40.7, Longitude: -74.0},
			Distance: &travel.Distance{
				Value: 1.2,
				Unit:  "KM",
			},
		}}}
		d, _, _ := newTestDispatcher(t, api)

		out := dispatch(t, d, "search_hotels", `{"city_code":"NYC"}`)
		require.Len(t, out.Hotels, 1)
		h := out.Hotels[0]
		require.NotNil(t, h.Latitude)
		assert.InDelta(t, 40.7, *h.Latitude, 0.001)
		require.NotNil(t, h.Distance)
		assert.InDelta(t, 1.2, *h.Distance, 0.001)
	})
}

func TestSearchHotelOffersTool(t *testing.T) {
	sets := []travel.HotelOfferSet{
		{
			Hotel: travel.OfferHotel{HotelID: "H1", Name: "Harbor View", CityCode: "NYC"},
			Offers: []travel.RoomOffer{{
				ID:           "OFF1",
				CheckInDate:  "2026-10-01",
				CheckOutDate: "2026-10-03",
				Price:        travel.Price{Currency: "USD", Total: "420.00"},
				Room: &travel.Room{
					TypeEstimated: &travel.TypeEstimated{Category: "DELUXE_ROOM"},
				},
				Policies: &travel.RoomPolicies{PaymentType: "guarantee"},
			}},
		},
	}

	t.Run("caches and projects offers", func(t *testing.T) {
		api := &fakeAPI{offerSets: sets}
		d, store, _ := newTestDispatcher(t, api)

		out := dispatch(t, d, "search_hotel_offers", `{"hotel_ids":["H1"],"check_in_date":"2026-10-01","check_out_date":"2026-10-03","adults":2}`)
		require.Equal(t, StatusSuccess, out.Status)
		require.Len(t, out.Offers, 1)
		o := out.Offers[0]
		assert.Equal(t, "OFF1", o.OfferID)
		assert.Equal(t, "H1", o.HotelID)
		assert.Equal(t, "Harbor View", o.Name)
		assert.Equal(t, "420.00", o.Price)
		assert.Equal(t, "DELUXE_ROOM", o.RoomType)
		assert.Equal(t, "guarantee", o.PaymentPolicy)

		_, cached := store.Offer("OFF1")
		assert.True(t, cached)
	})

	t.Run("empty offers", func(t *testing.T) {
		d, _, _ := newTestDispatcher(t, &fakeAPI{})

		out := dispatch(t, d, "search_hotel_offers", `{"hotel_ids":["H1"],"check_in_date":"2026-10-01","check_out_date":"2026-10-03","adults":1}`)
		assert.Equal(t, StatusEmpty, out.Status)
		assert.Equal(t, "No available offers for the selected hotels.", out.Message)
	})
}

func TestBookHotelTool(t *testing.T) {
	guestsJSON := `[{"tid":1,"title":"MR","firstName":"John","lastName":"Smith","phone":"+1-555-0100","email":"john@example.com"}]`

	t.Run("cache miss never calls the provider", func(t *testing.T) {
		api := &fakeAPI{}
		d, _, _ := newTestDispatcher(t, api)

		out := dispatch(t, d, "book_hotel", `{"offer_id":"OFF9","guests":`+guestsJSON+`}`)
		assert.Equal(t, StatusError, out.Status)
		assert.Equal(t, "Offer ID 'OFF9' not found. Please search for hotel offers first.", out.Message)
		assert.Zero(t, api.calls)
	})

	t.Run("books a cached offer with the configured payment", func(t *testing.T) {
		api := &fakeAPI{
			offerSets: []travel.HotelOfferSet{{
				Hotel:  travel.OfferHotel{HotelID: "H1", Name: "Harbor View"},
				Offers: []travel.RoomOffer{{ID: "OFF1"}},
			}},
			hotelOrder: &travel.HotelOrder{Type: "hotel-order", ID: "HO_7"},
		}
		d, _, recorder := newTestDispatcher(t, api)

		dispatch(t, d, "search_hotel_offers", `{"hotel_ids":["H1"],"check_in_date":"2026-10-01","check_out_date":"2026-10-03","adults":1}`)
		out := dispatch(t, d, "book_hotel", `{"offer_id":"OFF1","guests":`+guestsJSON+`}`)

		assert.Equal(t, StatusSuccess, out.Status)
		assert.Equal(t, "✅ Booking Confirmed! Booking ID: HO_7", out.Message)
		assert.Equal(t, "HO_7", out.BookingID)

		assert.Equal(t, "OFF1", api.lastOfferID)
		require.Len(t, api.lastGuests, 1)
		assert.Equal(t, "John", api.lastGuests[0].FirstName)
		assert.Equal(t, "4111111111111111", api.lastPayment.CardNumber)

		require.Len(t, recorder.records, 1)
		assert.Equal(t, "hotel", recorder.records[0].Kind)
		assert.Equal(t, "HO_7", recorder.records[0].OrderID)
	})

	t.Run("guest schema is enforced", func(t *testing.T) {
		api := &fakeAPI{}
		d, _, _ := newTestDispatcher(t, api)

		out := dispatch(t, d, "book_hotel", `{"offer_id":"OFF1","guests":[{"tid":1,"title":"MR"}]}`)
		assert.Equal(t, StatusError, out.Status)
		assert.Zero(t, api.calls)
	})
}
