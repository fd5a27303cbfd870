// Package treatments holds the salon's immutable treatment catalog.
package treatments

// Treatment is one bookable service. Prices are gross (VAT included), in
// cents. The engine never mutates treatments.
type Treatment struct {
	ID              string `dynamodbav:"id" json:"id"`
	Name            string `dynamodbav:"name" json:"name"`
	DurationMinutes int    `dynamodbav:"durationMinutes" json:"durationMinutes"`
	PriceCents      int    `dynamodbav:"priceCents" json:"priceCents"`
}

// DefaultCatalog returns the seed catalog for fresh environments.
func DefaultCatalog() []Treatment {
	return []Treatment{
		{ID: "damenschnitt", Name: "Damenhaarschnitt", DurationMinutes: 60, PriceCents: 5500},
		{ID: "herrenschnitt", Name: "Herrenhaarschnitt", DurationMinutes: 30, PriceCents: 3200},
		{ID: "kinderschnitt", Name: "Kinderhaarschnitt", DurationMinutes: 30, PriceCents: 2200},
		{ID: "faerben", Name: "Färben", DurationMinutes: 90, PriceCents: 7900},
		{ID: "balayage", Name: "Balayage", DurationMinutes: 150, PriceCents: 14900},
		{ID: "straehnen", Name: "Strähnen", DurationMinutes: 120, PriceCents: 9900},
		{ID: "dauerwelle", Name: "Dauerwelle", DurationMinutes: 120, PriceCents: 8900},
		{ID: "foehnen", Name: "Waschen & Föhnen", DurationMinutes: 30, PriceCents: 2800},
		{ID: "pflege", Name: "Intensivpflege", DurationMinutes: 30, PriceCents: 2500},
	}
}
