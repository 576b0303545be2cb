package api

import (
	"context"
	"net/http"
	"time"

	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
	"github.com/Drolfothesgnir/gohaa/engine"
	"github.com/Drolfothesgnir/gohaa/util"
	"github.com/gin-gonic/gin"
)

// Service serves template compilation, rendering and storage over HTTP.
type Service struct {
	config util.Config
	store  db.Store
	env    *engine.Environment
	server *http.Server
	router *gin.Engine
}

// Returns new service instance with provided config, store and template environment.
func NewService(config util.Config, store db.Store, env *engine.Environment) (*Service, error) {
	service := &Service{
		config: config,
		store:  store,
		env:    env,
	}

	server := &http.Server{
		Addr: config.HTTPServerAddress,
	}

	// caps how long a client can take to send just the headers (blocks slowloris).
	server.ReadHeaderTimeout = 5 * time.Second
	// caps time to read the full request (incl. body).
	server.ReadTimeout = 10 * time.Second
	// caps time spent writing the response, rendered templates are streamed.
	server.WriteTimeout = 30 * time.Second
	// how long to keep idle keep-alive connections open.
	server.IdleTimeout = 60 * time.Second

	service.setupRouter(server)

	service.server = server

	return service, nil
}

// Start runs the HTTP server
func (service *Service) Start() error {
	return service.server.ListenAndServe()
}

func (service *Service) Shutdown(ctx context.Context) error {
	return service.server.Shutdown(ctx)
}
