package tools

import "github.com/voyago/voyago/pkg/chat"

// definitionFor returns the model-facing definition of a tool. These
// schemas are the contract the model relies on to form valid calls; the
// parameter names and types must not drift from the handlers.
func definitionFor(k Kind) chat.ToolDefinition {
	switch k {
	case KindSearchFlights:
		return chat.ToolDefinition{
			Name: k.Name(),
			Description: "Search for available flights based on the origin, destination, departure date, and maximum price. " +
				"If the user does not provide a date, ask them to clarify. " +
				"Do not assume or guess the date — only use the date explicitly provided by the user.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"origin": map[string]interface{}{
						"type":        "string",
						"description": "The IATA code of the departure airport (e.g., 'JFK').",
					},
					"destination": map[string]interface{}{
						"type":        "string",
						"description": "The IATA code of the destination airport (e.g., 'MAD').",
					},
					"departure_date": map[string]interface{}{
						"type":        "string",
						"description": "Date of flight (YYYY-MM-DD). Must be explicitly provided by the user.",
					},
					"max_price": map[string]interface{}{
						"type":        "integer",
						"description": "The maximum price for flights in the preferred currency.",
					},
				},
				"required": []string{"origin", "destination", "departure_date"},
			},
		}
	case KindBookFlight:
		return chat.ToolDefinition{
			Name: k.Name(),
			Description: "Book a flight using the booking ID and passenger details. " +
				"If the ID is missing, call 'search_flights' to find the available flights first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"booking_id": map[string]interface{}{
						"type":        "string",
						"description": "The booking ID of a flight returned by a previous search.",
					},
					"passenger_name": map[string]interface{}{
						"type":        "string",
						"description": "Full name of the passenger for booking.",
					},
				},
				"required": []string{"booking_id", "passenger_name"},
			},
		}
	case KindSearchHotels:
		return chat.ToolDefinition{
			Name:        k.Name(),
			Description: "Search for available hotels based on city, geocode, or hotel ID.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city_code": map[string]interface{}{
						"type":        "string",
						"description": "The IATA code of the destination city (e.g., 'NYC').",
					},
					"latitude": map[string]interface{}{
						"type":        "number",
						"description": "Latitude for geocode-based search.",
					},
					"longitude": map[string]interface{}{
						"type":        "number",
						"description": "Longitude for geocode-based search.",
					},
					"hotel_ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Array of hotel IDs for direct lookup.",
					},
				},
			},
		}
	case KindNextHotelResults:
		return chat.ToolDefinition{
			Name:        k.Name(),
			Description: "Get the next batch of hotel search results.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		}
	case KindSearchHotelOffers:
		return chat.ToolDefinition{
			Name:        k.Name(),
			Description: "Get available room offers for specific hotels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hotel_ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "List of hotel IDs to search for offers. Map hotel names to the hotel IDs given previously.",
					},
					"check_in_date": map[string]interface{}{
						"type":        "string",
						"description": "Check-in date in YYYY-MM-DD format. Must be in the future.",
					},
					"check_out_date": map[string]interface{}{
						"type":        "string",
						"description": "Check-out date in YYYY-MM-DD format. Must be after the check-in date.",
					},
					"adults": map[string]interface{}{
						"type":        "integer",
						"description": "Number of adult guests.",
					},
				},
				"required": []string{"hotel_ids", "check_in_date", "check_out_date", "adults"},
			},
		}
	case KindBookHotel:
		return chat.ToolDefinition{
			Name:        k.Name(),
			Description: "Book a hotel using an offer ID and guest details.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"offer_id": map[string]interface{}{
						"type":        "string",
						"description": "The ID of a room offer returned by 'search_hotel_offers'.",
					},
					"guests": map[string]interface{}{
						"type":        "array",
						"description": "List of guests for the booking.",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"tid":       map[string]interface{}{"type": "integer", "description": "Guest reference ID."},
								"title":     map[string]interface{}{"type": "string", "description": "Title (e.g., 'MR', 'MRS')."},
								"firstName": map[string]interface{}{"type": "string", "description": "Guest's first name."},
								"lastName":  map[string]interface{}{"type": "string", "description": "Guest's last name."},
								"phone":     map[string]interface{}{"type": "string", "description": "Guest's phone number."},
								"email":     map[string]interface{}{"type": "string", "description": "Guest's email address."},
							},
							"required": []string{"tid", "title", "firstName", "lastName", "phone", "email"},
						},
					},
				},
				"required": []string{"offer_id", "guests"},
			},
		}
	default:
		return chat.ToolDefinition{Name: k.Name()}
	}
}
