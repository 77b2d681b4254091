package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyago/voyago/pkg/cache"
	"github.com/voyago/voyago/pkg/travel"
)

// SearchHotelsArgs are the model-supplied arguments for search_hotels.
// Exactly one of the three discriminators is expected; the adapter rejects
// ambiguous combinations before any network call.
type SearchHotelsArgs struct {
	CityCode  string   `json:"city_code"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	HotelIDs  []string `json:"hotel_ids"`
}

// SearchHotelOffersArgs are the model-supplied arguments for
// search_hotel_offers.
type SearchHotelOffersArgs struct {
	HotelIDs     []string `json:"hotel_ids"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	Adults       int      `json:"adults"`
}

// BookHotelArgs are the model-supplied arguments for book_hotel. Guest
// field names follow the provider wire format so the list can be forwarded
// without remapping.
type BookHotelArgs struct {
	OfferID string         `json:"offer_id"`
	Guests  []travel.Guest `json:"guests"`
}

func (r *Registry) searchHotels(ctx context.Context, store *cache.Store, a SearchHotelsArgs) Outcome {
	hotels, err := r.api.SearchHotels(ctx, travel.HotelQuery{
		CityCode:  strings.ToUpper(strings.TrimSpace(a.CityCode)),
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		HotelIDs:  a.HotelIDs,
	})
	r.observeProvider("search_hotels", err)
	if err != nil {
		return classifyError(r.logger, "search_hotels", err)
	}

	store.ReplaceHotels(hotels)

	if store.HotelCount() == 0 {
		return emptyOutcome("No hotels available for the specified criteria.")
	}

	// The first batch is returned immediately; the model pages through the
	// rest with get_next_hotel_results.
	batch := store.NextHotels()
	out := Outcome{Status: StatusSuccess, Hotels: projectHotels(batch)}
	if remaining := store.HotelCount() - len(batch); remaining > 0 {
		out.Message = fmt.Sprintf("Showing %d of %d hotels. Ask for more to see the next batch.", len(batch), store.HotelCount())
	}
	return out
}

func (r *Registry) nextHotelResults(store *cache.Store) Outcome {
	batch := store.NextHotels()
	if batch == nil {
		return emptyOutcome("No more hotels available.")
	}
	return Outcome{Status: StatusSuccess, Hotels: projectHotels(batch)}
}

func (r *Registry) searchHotelOffers(ctx context.Context, store *cache.Store, a SearchHotelOffersArgs) Outcome {
	sets, err := r.api.SearchHotelOffers(ctx, travel.OfferQuery{
		HotelIDs:     a.HotelIDs,
		CheckInDate:  a.CheckInDate,
		CheckOutDate: a.CheckOutDate,
		Adults:       a.Adults,
	})
	r.observeProvider("search_hotel_offers", err)
	if err != nil {
		return classifyError(r.logger, "search_hotel_offers", err)
	}

	store.ReplaceOffers(sets)

	summaries := make([]OfferSummary, 0, len(sets))
	for _, set := range sets {
		for _, offer := range set.Offers {
			summaries = append(summaries, projectOffer(set.Hotel, offer))
		}
	}
	if len(summaries) == 0 {
		return emptyOutcome("No available offers for the selected hotels.")
	}
	return Outcome{Status: StatusSuccess, Offers: summaries}
}

func (r *Registry) bookHotel(ctx context.Context, store *cache.Store, a BookHotelArgs) Outcome {
	entry, ok := store.Offer(a.OfferID)
	if !ok {
		return errorOutcome(fmt.Sprintf("Offer ID '%s' not found. Please search for hotel offers first.", a.OfferID))
	}

	order, err := r.api.BookHotel(ctx, entry.Offer.ID, a.Guests, r.payment)
	r.observeProvider("book_hotel", err)
	if err != nil {
		return classifyError(r.logger, "book_hotel", err)
	}

	detail := entry.Hotel.Name
	if len(a.Guests) > 0 {
		detail = fmt.Sprintf("%s (%s %s)", entry.Hotel.Name, a.Guests[0].FirstName, a.Guests[0].LastName)
	}
	r.record(ctx, BookingRecord{
		Kind:      "hotel",
		OrderID:   order.ID,
		Reference: entry.Offer.ID,
		Detail:    detail,
	})

	return Outcome{
		Status:    StatusSuccess,
		Message:   "✅ Booking Confirmed! Booking ID: " + order.ID,
		BookingID: order.ID,
	}
}

func projectHotels(hotels []travel.Hotel) []HotelSummary {
	summaries := make([]HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		s := HotelSummary{
			HotelID: h.HotelID,
			Name:    h.Name,
			City:    h.IataCode,
		}
		if s.City == "" && h.Address != nil {
			s.City = h.Address.CityName
		}
		if h.GeoCode != nil {
			lat, lon := h.GeoCode.Latitude, h.GeoCode.Longitude
			s.Latitude, s.Longitude = &lat, &lon
		}
		if h.Distance != nil {
			d := h.Distance.Value
			s.Distance = &d
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func projectOffer(hotel travel.OfferHotel, offer travel.RoomOffer) OfferSummary {
	s := OfferSummary{
		OfferID:      offer.ID,
		HotelID:      hotel.HotelID,
		Name:         hotel.Name,
		City:         hotel.CityCode,
		CheckInDate:  offer.CheckInDate,
		CheckOutDate: offer.CheckOutDate,
		Price:        offer.Price.Total,
		Currency:     offer.Price.Currency,
	}
	if offer.Room != nil {
		if offer.Room.TypeEstimated != nil && offer.Room.TypeEstimated.Category != "" {
			s.RoomType = offer.Room.TypeEstimated.Category
		} else {
			s.RoomType = offer.Room.Type
		}
	}
	if offer.Policies != nil {
		s.PaymentPolicy = offer.Policies.PaymentType
	}
	return s
}
