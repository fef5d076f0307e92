package models

// FlightSearchRequest is the body of the legacy flight search endpoint.
type FlightSearchRequest struct {
	Source        string `json:"source" validate:"required,max=64"`
	Destination   string `json:"destination" validate:"required,max=64"`
	DepartureDate string `json:"departureDate" validate:"required,datetime=2006-01-02"`
}

// FlightFromOffer flattens a flight offer into the legacy list item. Route
// fields the offer does not carry come from the request.
func FlightFromOffer(o Offer, req FlightSearchRequest) FlightDetails {
	f := FlightDetails{
		Carrier:     o.Title,
		Source:      req.Source,
		Destination: req.Destination,
		Date:        req.DepartureDate,
		Duration:    o.Duration,
	}
	if o.Origin != nil {
		f.Source = *o.Origin
	}
	if o.Destination != nil {
		f.Destination = *o.Destination
	}
	if o.WhenDeparts != nil {
		f.Departure = o.WhenDeparts.Text
	}
	if o.Price != nil {
		f.Price = o.Price.Amount
	}
	return f
}
