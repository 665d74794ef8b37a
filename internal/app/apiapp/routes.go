package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/config"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	flightsvc "github.com/Dutaco/wingoo-clean/internal/services/flights"
	geosvc "github.com/Dutaco/wingoo-clean/internal/services/geo"
	giftsvc "github.com/Dutaco/wingoo-clean/internal/services/gifts"
	matchsvc "github.com/Dutaco/wingoo-clean/internal/services/matching"
	newssvc "github.com/Dutaco/wingoo-clean/internal/services/news"
	profilesvc "github.com/Dutaco/wingoo-clean/internal/services/profiles"
	quotasvc "github.com/Dutaco/wingoo-clean/internal/services/quota"
	subsvc "github.com/Dutaco/wingoo-clean/internal/services/subscriptions"
	zonesvc "github.com/Dutaco/wingoo-clean/internal/services/zones"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager          *authsvc.JWTManager
	GeoService          *geosvc.Service
	ProfileService      *profilesvc.Service
	MatchService        *matchsvc.Service
	ZoneService         *zonesvc.Service
	GiftService         *giftsvc.Service
	FlightService       *flightsvc.Service
	NewsService         *newssvc.Service
	QuotaService        *quotasvc.Service
	SubscriptionService *subsvc.Service
	Logger              *zap.Logger
	Config              config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	locationHandler := handlers.NewLocationHandler(deps.GeoService)
	meHandler := handlers.NewMeHandler(deps.ProfileService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	zonesHandler := handlers.NewZonesHandler(deps.ZoneService)
	giftsHandler := handlers.NewGiftsHandler(deps.GiftService)
	flightsHandler := handlers.NewFlightsHandler(deps.FlightService)
	newsHandler := handlers.NewNewsHandler(deps.NewsService)
	quotaHandler := handlers.NewQuotaHandler(deps.QuotaService)
	subscriptionHandler := handlers.NewSubscriptionHandler(deps.SubscriptionService)
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/health", healthHandler.Handle)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/location", locationHandler.Handle)
		r.Get("/me", meHandler.Get)
		r.Put("/me/interests", meHandler.UpdateInterests)
		r.Get("/matches", matchesHandler.Handle)
		r.Get("/zones", zonesHandler.List)
		r.Post("/zones/check", zonesHandler.Check)
		r.Post("/zones/waiter", zonesHandler.CallWaiter)
		r.Post("/gifts", giftsHandler.Send)
		r.Get("/gifts/sent", giftsHandler.ListSent)
		r.Get("/gifts/received", giftsHandler.ListReceived)
		r.Post("/flights/book", flightsHandler.Book)
		r.Get("/flights/{flightNumber}/matches", flightsHandler.Matches)
		r.Post("/news", newsHandler.Handle)
		r.Get("/quota", quotaHandler.Snapshot)
		r.Get("/quota/{feature}", quotaHandler.FeatureAccess)
		r.Get("/subscription", subscriptionHandler.Get)
		r.Post("/subscription/upgrade", subscriptionHandler.Upgrade)
	})
}
