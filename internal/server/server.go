// Package server exposes resource controllers over HTTP.
package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/facebookgo/httpdown"
	"github.com/hashicorp/go-hclog"
	"github.com/julienschmidt/httprouter"

	"github.com/mesh-intelligence/graphbridge/internal/resource"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// RESTServer serves the contact resource under BasePath.
type RESTServer struct {
	Listen   string // address to listen on, e.g. ":8000"
	BasePath string // URL prefix, e.g. "/api/gc/v1"

	Contacts *resource.Controller
	Logger   hclog.Logger

	mu      sync.Mutex
	server  httpdown.Server // used to close our listening socket
	stopped bool
}

// Run starts the listener and blocks until the server stops. Run returns
// nil without serving when Stop was already called.
func (s *RESTServer) Run() error {
	if s.Contacts == nil {
		return errors.New("server: no contact controller")
	}
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return nil
	}

	logger := s.logger()
	logger.Info("listening", "addr", s.Listen, "base_path", s.BasePath)

	h := httpdown.HTTP{}
	srv, err := h.ListenAndServe(&http.Server{
		Addr:    s.Listen,
		Handler: s.Handler(),
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.server = srv
	stopped = s.stopped
	s.mu.Unlock()
	if stopped {
		return srv.Stop()
	}
	return srv.Wait()
}

// Stop closes the listener and waits for in-flight requests. A Run that has
// not started listening yet will not serve.
func (s *RESTServer) Stop() error {
	s.mu.Lock()
	s.stopped = true
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Stop()
}

// contactMethods are routed to the controller, which rejects those it does
// not serve.
var contactMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

var contactRoutes = []string{
	"/me/contacts",
	"/me/contacts/:itemid",
	"/me/contacts/:itemid/:segment",
	"/me/contactFolders/:folderid/contacts",
	"/me/contactFolders/:folderid/contacts/:itemid",
	"/me/contactFolders/:folderid/contacts/:itemid/:segment",
}

// Handler returns the routed handler without starting a listener.
func (s *RESTServer) Handler() http.Handler {
	base := strings.TrimSuffix(s.BasePath, "/")
	contacts := logWrapper(s.logger(), resourceHandler(s.Contacts))

	r := httprouter.New()
	r.HandleOPTIONS = false
	for _, route := range contactRoutes {
		for _, method := range contactMethods {
			r.Handle(method, base+route, contacts)
		}
	}
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		contacts(w, req, nil)
	})
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, types.ErrorCodeNotFound, "Unknown resource "+req.URL.Path)
	})
	return r
}

func (s *RESTServer) logger() hclog.Logger {
	if s.Logger == nil {
		return hclog.NewNullLogger()
	}
	return s.Logger.Named("server")
}
