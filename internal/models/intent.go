package models

// Intent is the coarse goal detected in a user message.
type Intent string

const (
	IntentSearchHotel    Intent = "search_hotel"
	IntentSearchFlight   Intent = "search_flight"
	IntentSearchPackage  Intent = "search_package"
	IntentPriceQuery     Intent = "price_query"
	IntentAmenities      Intent = "amenities"
	IntentDestination    Intent = "destination"
	IntentGreeting       Intent = "greeting"
	IntentThanks         Intent = "thanks"
	IntentHelp           Intent = "help"
	IntentLanguageSwitch Intent = "language_switch"
	IntentUnknown        Intent = "unknown"
)

var knownIntents = map[Intent]struct{}{
	IntentSearchHotel:    {},
	IntentSearchFlight:   {},
	IntentSearchPackage:  {},
	IntentPriceQuery:     {},
	IntentAmenities:      {},
	IntentDestination:    {},
	IntentGreeting:       {},
	IntentThanks:         {},
	IntentHelp:           {},
	IntentLanguageSwitch: {},
}

// ParseIntent maps a label to a known intent, reporting false for anything
// outside the closed set (including "unknown").
func ParseIntent(label string) (Intent, bool) {
	intent := Intent(label)
	if _, ok := knownIntents[intent]; ok {
		return intent, true
	}
	return IntentUnknown, false
}

// IsSearch reports whether the intent queries the catalog.
func (i Intent) IsSearch() bool {
	switch i {
	case IntentSearchHotel, IntentSearchFlight, IntentSearchPackage:
		return true
	}
	return false
}
