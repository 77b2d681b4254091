package travel

// FlightOffer is a full flight offer entity as returned by the provider.
// The entire entity is cached so a later booking can resend it verbatim;
// field names must match the provider wire format exactly.
type FlightOffer struct {
	Type                     string            `json:"type"`
	ID                       string            `json:"id"`
	Source                   string            `json:"source,omitempty"`
	InstantTicketingRequired bool              `json:"instantTicketingRequired,omitempty"`
	NonHomogeneous           bool              `json:"nonHomogeneous,omitempty"`
	OneWay                   bool              `json:"oneWay,omitempty"`
	LastTicketingDate        string            `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats    int               `json:"numberOfBookableSeats,omitempty"`
	Itineraries              []Itinerary       `json:"itineraries"`
	Price                    Price             `json:"price"`
	PricingOptions           *PricingOptions   `json:"pricingOptions,omitempty"`
	ValidatingAirlineCodes   []string          `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings         []TravelerPricing `json:"travelerPricings,omitempty"`
}

// Itinerary is one direction of travel within an offer.
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flight leg.
type Segment struct {
	Departure     FlightEndpoint `json:"departure"`
	Arrival       FlightEndpoint `json:"arrival"`
	CarrierCode   string         `json:"carrierCode"`
	Number        string         `json:"number,omitempty"`
	Aircraft      *Aircraft      `json:"aircraft,omitempty"`
	Operating     *Operating     `json:"operating,omitempty"`
	Duration      string         `json:"duration,omitempty"`
	ID            string         `json:"id,omitempty"`
	NumberOfStops int            `json:"numberOfStops"`
}

// FlightEndpoint is a departure or arrival point.
type FlightEndpoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

// Aircraft identifies the equipment for a segment.
type Aircraft struct {
	Code string `json:"code"`
}

// Operating identifies the operating carrier when it differs from the
// marketing carrier.
type Operating struct {
	CarrierCode string `json:"carrierCode"`
}

// Price is the provider's price breakdown.
type Price struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base,omitempty"`
	Fees       []Fee  `json:"fees,omitempty"`
	Taxes      []Tax  `json:"taxes,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// Fee is a single fee line in a price breakdown.
type Fee struct {
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

// Tax is a single tax line in a price breakdown.
type Tax struct {
	Amount string `json:"amount"`
	Code   string `json:"code"`
}

// PricingOptions carries fare type flags.
type PricingOptions struct {
	FareType                []string `json:"fareType,omitempty"`
	IncludedCheckedBagsOnly bool     `json:"includedCheckedBagsOnly,omitempty"`
}

// TravelerPricing is the per-traveler fare breakdown.
type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareOption           string       `json:"fareOption,omitempty"`
	TravelerType         string       `json:"travelerType,omitempty"`
	Price                Price        `json:"price"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment,omitempty"`
}

// FareDetail describes the fare on one segment.
type FareDetail struct {
	SegmentID           string       `json:"segmentId"`
	Cabin               string       `json:"cabin,omitempty"`
	FareBasis           string       `json:"fareBasis,omitempty"`
	BrandedFare         string       `json:"brandedFare,omitempty"`
	Class               string       `json:"class,omitempty"`
	IncludedCheckedBags *CheckedBags `json:"includedCheckedBags,omitempty"`
}

// CheckedBags is the checked baggage allowance on a fare.
type CheckedBags struct {
	Quantity int `json:"quantity"`
}

// Traveler is a passenger record in a flight order request.
type Traveler struct {
	ID          string           `json:"id"`
	DateOfBirth string           `json:"dateOfBirth,omitempty"`
	Name        TravelerName     `json:"name"`
	Contact     *TravelerContact `json:"contact,omitempty"`
}

// TravelerName is the structured passenger name.
type TravelerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TravelerContact carries optional passenger contact details.
type TravelerContact struct {
	EmailAddress string  `json:"emailAddress,omitempty"`
	Phones       []Phone `json:"phones,omitempty"`
}

// Phone is a contact phone number.
type Phone struct {
	DeviceType         string `json:"deviceType,omitempty"`
	CountryCallingCode string `json:"countryCallingCode,omitempty"`
	Number             string `json:"number"`
}

// FlightOrder is a created flight booking.
type FlightOrder struct {
	Type              string             `json:"type"`
	ID                string             `json:"id"`
	QueuingOfficeID   string             `json:"queuingOfficeId,omitempty"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords,omitempty"`
	FlightOffers      []FlightOffer      `json:"flightOffers,omitempty"`
	Travelers         []Traveler         `json:"travelers,omitempty"`
}

// AssociatedRecord is a PNR reference attached to an order.
type AssociatedRecord struct {
	Reference        string `json:"reference"`
	CreationDate     string `json:"creationDate,omitempty"`
	OriginSystemCode string `json:"originSystemCode,omitempty"`
}

// Hotel is a hotel record from the hotel list endpoints.
type Hotel struct {
	HotelID   string    `json:"hotelId"`
	ChainCode string    `json:"chainCode,omitempty"`
	IataCode  string    `json:"iataCode,omitempty"`
	Name      string    `json:"name"`
	GeoCode   *GeoCode  `json:"geoCode,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	Distance  *Distance `json:"distance,omitempty"`
}

// GeoCode is a latitude/longitude pair.
type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is a hotel postal address.
type Address struct {
	CountryCode string   `json:"countryCode,omitempty"`
	CityName    string   `json:"cityName,omitempty"`
	Lines       []string `json:"lines,omitempty"`
}

// Distance is the distance from the search origin.
type Distance struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// HotelOfferSet groups the room offers available at one hotel.
type HotelOfferSet struct {
	Type      string      `json:"type,omitempty"`
	Hotel     OfferHotel  `json:"hotel"`
	Available bool        `json:"available,omitempty"`
	Offers    []RoomOffer `json:"offers"`
}

// OfferHotel identifies the hotel an offer set belongs to.
type OfferHotel struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name,omitempty"`
	CityCode string `json:"cityCode,omitempty"`
}

// RoomOffer is a bookable room offer. The full entity is cached so booking
// can reference its price breakdown without re-fetching.
type RoomOffer struct {
	ID           string        `json:"id"`
	CheckInDate  string        `json:"checkInDate,omitempty"`
	CheckOutDate string        `json:"checkOutDate,omitempty"`
	RoomQuantity string        `json:"roomQuantity,omitempty"`
	RateCode     string        `json:"rateCode,omitempty"`
	Room         *Room         `json:"room,omitempty"`
	Guests       *OfferGuests  `json:"guests,omitempty"`
	Price        Price         `json:"price"`
	Policies     *RoomPolicies `json:"policies,omitempty"`
}

// Room describes the room on an offer.
type Room struct {
	Type          string           `json:"type,omitempty"`
	TypeEstimated *TypeEstimated   `json:"typeEstimated,omitempty"`
	Description   *RoomDescription `json:"description,omitempty"`
}

// TypeEstimated is the provider's estimated room classification.
type TypeEstimated struct {
	Category string `json:"category,omitempty"`
	Beds     int    `json:"beds,omitempty"`
	BedType  string `json:"bedType,omitempty"`
}

// RoomDescription is free text describing the room.
type RoomDescription struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// OfferGuests is the guest count an offer was priced for.
type OfferGuests struct {
	Adults int `json:"adults"`
}

// RoomPolicies carries payment and cancellation policies on an offer.
type RoomPolicies struct {
	PaymentType   string         `json:"paymentType,omitempty"`
	Cancellations []Cancellation `json:"cancellations,omitempty"`
}

// Cancellation is one cancellation policy window.
type Cancellation struct {
	Deadline string `json:"deadline,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

// Guest is a guest record in a hotel order request.
type Guest struct {
	TID       int    `json:"tid"`
	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Payment is the payment instrument attached to a hotel order. Values come
// from configuration, never from literals in code.
type Payment struct {
	Method     string
	VendorCode string
	CardNumber string
	Expiry     string
	HolderName string
}

// HotelOrder is a created hotel booking.
type HotelOrder struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}
