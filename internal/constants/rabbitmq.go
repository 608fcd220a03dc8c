package constants

// Обменник доменных событий
const (
	ListingEventsExchange     = "listing_events"
	ListingEventsExchangeType = "topic"
)

// Заголовки сообщений
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)
