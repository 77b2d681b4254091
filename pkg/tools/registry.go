package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/voyago/voyago/internal/metrics"
	"github.com/voyago/voyago/pkg/cache"
	"github.com/voyago/voyago/pkg/chat"
	"github.com/voyago/voyago/pkg/travel"
	"github.com/xeipuuv/gojsonschema"
)

// Kind enumerates the tool set. The dispatch switch over Kind is exhaustive;
// adding a variant here without a handler arm is a compile-time question,
// not a silent runtime gap.
type Kind int

const (
	KindSearchFlights Kind = iota
	KindBookFlight
	KindSearchHotels
	KindNextHotelResults
	KindSearchHotelOffers
	KindBookHotel

	kindCount
)

// Name returns the model-facing tool name.
func (k Kind) Name() string {
	switch k {
	case KindSearchFlights:
		return "search_flights"
	case KindBookFlight:
		return "book_flight"
	case KindSearchHotels:
		return "search_hotels"
	case KindNextHotelResults:
		return "get_next_hotel_results"
	case KindSearchHotelOffers:
		return "search_hotel_offers"
	case KindBookHotel:
		return "book_hotel"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// KindFromName resolves a tool name to its kind.
func KindFromName(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if k.Name() == name {
			return k, true
		}
	}
	return 0, false
}

// TravelAPI is the slice of the provider adapter the tool handlers use.
// Satisfied by *travel.Client.
type TravelAPI interface {
	SearchFlights(ctx context.Context, q travel.FlightQuery) ([]travel.FlightOffer, error)
	BookFlight(ctx context.Context, offer travel.FlightOffer, travelers []travel.Traveler) (*travel.FlightOrder, error)
	SearchHotels(ctx context.Context, q travel.HotelQuery) ([]travel.Hotel, error)
	SearchHotelOffers(ctx context.Context, q travel.OfferQuery) ([]travel.HotelOfferSet, error)
	BookHotel(ctx context.Context, offerID string, guests []travel.Guest, payment travel.Payment) (*travel.HotelOrder, error)
}

// BookingRecord is an audit entry for a confirmed order.
type BookingRecord struct {
	Kind      string
	OrderID   string
	Reference string
	Detail    string
}

// BookingRecorder persists confirmed orders. Satisfied by *ledger.Ledger.
type BookingRecorder interface {
	Record(ctx context.Context, rec BookingRecord) error
}

// Registry holds the tool set: compiled argument schemas, the provider
// adapter, and shared booking configuration. It is immutable after creation
// and shared by all sessions.
type Registry struct {
	api         TravelAPI
	payment     travel.Payment
	recorder    BookingRecorder
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	schemas     map[Kind]*gojsonschema.Schema
	definitions []chat.ToolDefinition
}

// Config configures a Registry.
type Config struct {
	API      TravelAPI
	Payment  travel.Payment
	Recorder BookingRecorder
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// NewRegistry creates the tool registry and compiles all argument schemas.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("travel API is required")
	}

	r := &Registry{
		api:      cfg.API,
		payment:  cfg.Payment,
		recorder: cfg.Recorder,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		schemas:  make(map[Kind]*gojsonschema.Schema, kindCount),
	}

	for k := Kind(0); k < kindCount; k++ {
		def := definitionFor(k)
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", k.Name(), err)
		}
		r.schemas[k] = schema
		r.definitions = append(r.definitions, def)
	}

	return r, nil
}

// ForSession binds the registry to one session's result cache.
func (r *Registry) ForSession(store *cache.Store) *SessionDispatcher {
	return &SessionDispatcher{registry: r, store: store}
}

// SessionDispatcher implements chat.ToolDispatcher for one session. It is
// used by a single connection handler and needs no locking.
type SessionDispatcher struct {
	registry *Registry
	store    *cache.Store
}

// Definitions returns the tool definitions advertised to the model.
func (d *SessionDispatcher) Definitions() []chat.ToolDefinition {
	return d.registry.definitions
}

// Dispatch validates and executes one tool call and returns the serialized
// outcome. Unknown tools and validation failures come back as structured
// errors; the handler is only invoked with schema-valid arguments.
func (d *SessionDispatcher) Dispatch(ctx context.Context, call chat.ToolCall) json.RawMessage {
	start := time.Now()

	outcome := d.dispatch(ctx, call)

	if m := d.registry.metrics; m != nil {
		m.ToolExecutionsTotal.WithLabelValues(call.Name, string(outcome.Status)).Inc()
		m.ToolExecutionDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())
	}

	d.registry.logger.Debug().
		Str("tool", call.Name).
		Str("status", string(outcome.Status)).
		Dur("elapsed", time.Since(start)).
		Msg("Tool call dispatched")

	return marshalOutcome(outcome)
}

func (d *SessionDispatcher) dispatch(ctx context.Context, call chat.ToolCall) Outcome {
	kind, ok := KindFromName(call.Name)
	if !ok {
		d.registry.logger.Warn().Str("tool", call.Name).Msg("Unknown tool requested")
		return errorOutcome(fmt.Sprintf("Tool not found: '%s'.", call.Name))
	}

	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	if msg, ok := d.registry.validate(kind, args); !ok {
		return errorOutcome(msg)
	}

	r := d.registry
	switch kind {
	case KindSearchFlights:
		var a SearchFlightsArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return errorOutcome(fmt.Sprintf("Invalid arguments: %v", err))
		}
		return r.searchFlights(ctx, d.store, a)
	case KindBookFlight:
		var a BookFlightArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return errorOutcome(fmt.Sprintf("Invalid arguments: %v", err))
		}
		return r.bookFlight(ctx, d.store, a)
	case KindSearchHotels:
		var a SearchHotelsArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return errorOutcome(fmt.Sprintf("Invalid arguments: %v", err))
		}
		return r.searchHotels(ctx, d.store, a)
	case KindNextHotelResults:
		return r.nextHotelResults(d.store)
	case KindSearchHotelOffers:
		var a SearchHotelOffersArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return errorOutcome(fmt.Sprintf("Invalid arguments: %v", err))
		}
		return r.searchHotelOffers(ctx, d.store, a)
	case KindBookHotel:
		var a BookHotelArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return errorOutcome(fmt.Sprintf("Invalid arguments: %v", err))
		}
		return r.bookHotel(ctx, d.store, a)
	default:
		return errorOutcome(fmt.Sprintf("Tool not found: '%s'.", call.Name))
	}
}

// validate checks raw arguments against the compiled schema. The returned
// message lists every violation so the model can correct all of them at once.
func (r *Registry) validate(kind Kind, args json.RawMessage) (string, bool) {
	result, err := r.schemas[kind].Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return fmt.Sprintf("Arguments are not valid JSON: %v", err), false
	}
	if result.Valid() {
		return "", true
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return "Invalid arguments: " + strings.Join(problems, "; "), false
}

// observeProvider counts one provider adapter call for the given operation.
func (r *Registry) observeProvider(op string, err error) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.ProviderRequestsTotal.WithLabelValues(op, status).Inc()
}

func (r *Registry) record(ctx context.Context, rec BookingRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.Error().Err(err).Str("order_id", rec.OrderID).Msg("Failed to record booking")
	}
}
