package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dharmasatrya/tripease/internal/config"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/normalizer"
	"github.com/dharmasatrya/tripease/internal/providers"
	"github.com/dharmasatrya/tripease/internal/tokencache"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(newTokenIssuer("id", "secret", time.Hour), 0))
	t.Cleanup(srv.Close)
	return srv
}

func TestShapesNormalize(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		path  string
		kind  models.Kind
		query models.SearchQuery
		price bool
	}{
		{"/hotels", models.KindHotel, models.NewSearchQuery("goa", models.KindHotel, "", "", "2025-12-01", 2, ""), true},
		{"/buses", models.KindBus, models.NewSearchQuery("", models.KindBus, "Mumbai", "Goa", "2025-12-01", 0, ""), true},
		{"/trains", models.KindTrain, models.NewSearchQuery("", models.KindTrain, "NDLS", "BCT", "2025-12-01", 0, ""), true},
		{"/destinations", models.KindDestination, models.NewSearchQuery("goa", "", "", "", "", 0, ""), true},
		{"/places", models.KindDestination, models.NewSearchQuery("goa", "", "", "", "", 0, ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p := providers.NewHTTPProvider(config.ProviderConfig{
				Name: strings.TrimPrefix(tt.path, "/"),
				Kind: tt.kind,
				URL:  srv.URL + tt.path,
			}, providers.Deps{})

			records, err := p.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(records) < 2 {
				t.Fatalf("got %d records", len(records))
			}

			offers := normalizer.NormalizeAll(records, normalizer.Source{Provider: p.Name(), Kind: p.Kind()})
			for _, o := range offers {
				if o.ID == "" || o.Title == "" || o.Kind != tt.kind {
					t.Errorf("offer = %+v", o)
				}
				if tt.price && (o.Price == nil || o.Price.Amount <= 0) {
					t.Errorf("offer %q has no price", o.Title)
				}
				if o.CapacityRemaining != nil && *o.CapacityRemaining < 0 {
					t.Errorf("negative capacity on %q", o.Title)
				}
			}
		})
	}
}

func TestFlightsRequireToken(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/flights?originLocationCode=DEL")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", resp.StatusCode)
	}

	resp, err = http.PostForm(srv.URL+"/oauth2/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"id"},
		"client_secret": {"wrong"},
	})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad secret: status = %d", resp.StatusCode)
	}
}

func TestFlightsThroughTokenCache(t *testing.T) {
	srv := newServer(t)
	tokens := tokencache.New()

	p := providers.NewHTTPProvider(config.ProviderConfig{
		Name: "flights",
		Kind: models.KindFlight,
		URL:  srv.URL + "/flights",
		Auth: config.AuthConfig{
			Type:         config.AuthOAuth2,
			TokenURL:     srv.URL + "/oauth2/token",
			ClientID:     "id",
			ClientSecret: "secret",
		},
	}, providers.Deps{Tokens: tokens})

	q := models.NewSearchQuery("", models.KindFlight, "DEL", "GOI", "2025-12-01", 1, "")
	records, err := p.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	offers := normalizer.NormalizeAll(records, normalizer.Source{Provider: "flights", Kind: models.KindFlight})
	if len(offers) < 2 {
		t.Fatalf("got %d offers", len(offers))
	}
	for _, o := range offers {
		if o.Origin == nil || *o.Origin != "DEL" || o.Destination == nil || *o.Destination != "GOI" {
			t.Errorf("route = %v -> %v", o.Origin, o.Destination)
		}
		if o.WhenDeparts == nil || o.WhenDeparts.At == nil {
			t.Errorf("departure not parsed: %+v", o.WhenDeparts)
		}
		if o.Price == nil || o.Price.Amount <= 0 || o.Price.Currency != "INR" {
			t.Errorf("price = %+v", o.Price)
		}
		if !strings.Contains(o.Duration, "h") {
			t.Errorf("duration = %q", o.Duration)
		}
	}
}
