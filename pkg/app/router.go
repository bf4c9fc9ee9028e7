package app

import (
	"context"
	"net/http"

	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/config"
	"github.com/elimity-com/scim"
	"github.com/elimity-com/scim/optional"
	"github.com/elimity-com/scim/schema"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Logger   *zerolog.Logger
	Handler  *groups.GroupHandler
	Auth     *config.AuthConfig
	SCIM     bool
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	Pinger   Pinger
}

// NewRouter mounts the JSON API, the SCIM endpoints and the operational
// endpoints. Health and metrics are served without authentication.
func NewRouter(cfg *RouterConfig) (http.Handler, error) {
	if cfg.Logger == nil || cfg.Handler == nil {
		return nil, errors.New("router requires a logger and a group handler")
	}

	r := mux.NewRouter()
	r.Use(requestID, accessLog(cfg.Logger, cfg.Metrics))

	r.HandleFunc("/healthz", health(cfg.Pinger)).Methods(http.MethodGet)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	protected := r.NewRoute().Subrouter()
	protected.Use(newAuthenticator(cfg.Auth).middleware)

	NewGroupsAPI(cfg.Logger, cfg.Handler).Register(protected)

	if cfg.SCIM {
		scimServer, err := newSCIMServer(cfg.Handler)
		if err != nil {
			return nil, err
		}

		protected.PathPrefix("/scim/v2/").Handler(http.StripPrefix("/scim", http.HandlerFunc(scimServer.ServeHTTP)))
	}

	return r, nil
}

func newSCIMServer(handler *groups.GroupHandler) (scim.Server, error) {
	groupType := scim.ResourceType{
		ID:          optional.NewString("Group"),
		Name:        "Group",
		Endpoint:    "/Groups",
		Description: optional.NewString("Helpdesk Group"),
		Schema:      schema.CoreGroupSchema(),
		Handler:     NewGroupResourceHandler(handler),
	}

	return scim.NewServer(&scim.ServerArgs{
		ServiceProviderConfig: &scim.ServiceProviderConfig{
			SupportFiltering: true,
			SupportPatch:     true,
			AuthenticationSchemes: []scim.AuthenticationScheme{
				{
					Type:        scim.AuthenticationTypeHTTPBasic,
					Name:        "HTTP Basic",
					Description: "Authentication scheme using the HTTP Basic Standard",
					SpecURI:     optional.NewString("https://tools.ietf.org/html/rfc7617"),
				},
				{
					Type:        scim.AuthenticationTypeOauthBearerToken,
					Name:        "Bearer Token",
					Description: "Authentication scheme using a static bearer token",
					SpecURI:     optional.NewString("https://tools.ietf.org/html/rfc6750"),
				},
			},
		},
		ResourceTypes: []scim.ResourceType{groupType},
	})
}

func health(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))

				return
			}
		}

		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	}
}
