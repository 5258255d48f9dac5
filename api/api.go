package api

import (
	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/triviad/machine"
	"github.com/the-lightning-land/triviad/statedb"
	"net"
	"net/http"
)

type Config struct {
	Machine machine.Machine
	Store   statedb.Store
	Log     Logger
}

// Api lets a developer play without hardware: it shows the current round,
// presses buttons and streams the signals sent to the device.
type Api struct {
	machine machine.Machine
	store   statedb.Store
	router  *mux.Router
	log     Logger
}

func New(config *Config) *Api {
	api := &Api{
		machine: config.Machine,
		store:   config.Store,
		router:  mux.NewRouter(),
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	api.router.Use(api.loggingMiddleware)

	api.router.Handle("/api/v1/round", api.handleGetRound()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/buttons/{key}", api.handlePostButton()).Methods(http.MethodPost)
	api.router.Handle("/api/v1/signals/events", api.handleGetSignalEvents()).Methods(http.MethodGet)

	return api
}

func (a *Api) Handler() http.Handler {
	return a.router
}

func (a *Api) Serve(l net.Listener) error {
	err := http.Serve(l, a.router)
	if err != nil {
		return errors.Errorf("Unable to serve api: %v", err)
	}

	return nil
}

func (a *Api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.log.Debugf("Accessing %v %v", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}
