// Package cache holds full provider entities between a search and a later
// booking, so the model only ever sees projections and books by identifier.
// A Store is owned by exactly one session and dies with it.
package cache

import (
	"sync"

	"github.com/voyago/voyago/pkg/travel"
)

// DefaultHotelBatchSize is how many hotels a pagination step returns.
const DefaultHotelBatchSize = 5

// Store is a per-session cache of search results plus the hotel pagination
// cursor. Every search of a given kind clears and replaces the entries of
// that kind; the cursor never moves backwards. The tool calls of one
// assistant turn run concurrently, so all access is mutex-guarded.
type Store struct {
	mu sync.Mutex

	flights map[string]travel.FlightOffer

	hotels     map[string]travel.Hotel
	hotelOrder []string
	cursor     int
	batchSize  int

	offers map[string]OfferEntry
}

// OfferEntry pairs a room offer with the hotel it belongs to, keyed by the
// offer id, so booking can rebuild the provider payload.
type OfferEntry struct {
	Hotel travel.OfferHotel
	Offer travel.RoomOffer
}

// New creates an empty store. batchSize <= 0 selects the default.
func New(batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultHotelBatchSize
	}
	return &Store{
		flights:   make(map[string]travel.FlightOffer),
		hotels:    make(map[string]travel.Hotel),
		offers:    make(map[string]OfferEntry),
		batchSize: batchSize,
	}
}

// ReplaceFlights clears the flight entries and stores the new result set
// keyed by offer id.
func (s *Store) ReplaceFlights(offers []travel.FlightOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flights = make(map[string]travel.FlightOffer, len(offers))
	for _, offer := range offers {
		s.flights[offer.ID] = offer
	}
}

// Flight resolves a flight offer by the provider-issued id.
func (s *Store) Flight(id string) (travel.FlightOffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.flights[id]
	return offer, ok
}

// ReplaceHotels clears the hotel entries, stores the new result set in
// provider order, and resets the pagination cursor.
func (s *Store) ReplaceHotels(hotels []travel.Hotel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hotels = make(map[string]travel.Hotel, len(hotels))
	s.hotelOrder = make([]string, 0, len(hotels))
	for _, h := range hotels {
		if _, seen := s.hotels[h.HotelID]; seen {
			continue
		}
		s.hotels[h.HotelID] = h
		s.hotelOrder = append(s.hotelOrder, h.HotelID)
	}
	s.cursor = 0
}

// Hotel resolves a hotel record by id.
func (s *Store) Hotel(id string) (travel.Hotel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hotels[id]
	return h, ok
}

// HotelCount reports how many hotels the last search cached.
func (s *Store) HotelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.hotelOrder)
}

// NextHotels returns the next batch of not-yet-returned hotels and advances
// the cursor by the number returned. A nil slice means the cursor has
// reached the end of the result set.
func (s *Store) NextHotels() []travel.Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.hotelOrder) {
		return nil
	}

	end := s.cursor + s.batchSize
	if end > len(s.hotelOrder) {
		end = len(s.hotelOrder)
	}

	batch := make([]travel.Hotel, 0, end-s.cursor)
	for _, id := range s.hotelOrder[s.cursor:end] {
		batch = append(batch, s.hotels[id])
	}
	s.cursor = end
	return batch
}

// ReplaceOffers clears the room offer entries and stores the new sets keyed
// by offer id.
func (s *Store) ReplaceOffers(sets []travel.HotelOfferSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers = make(map[string]OfferEntry)
	for _, set := range sets {
		for _, offer := range set.Offers {
			s.offers[offer.ID] = OfferEntry{Hotel: set.Hotel, Offer: offer}
		}
	}
}

// Offer resolves a room offer by id.
func (s *Store) Offer(id string) (OfferEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.offers[id]
	return entry, ok
}
