// Package travel is the adapter for the Amadeus self-service API. It owns
// credential exchange, request construction with the exact field names the
// provider expects, and classification of provider responses into
// success/empty/error outcomes for the tool layer.
package travel
