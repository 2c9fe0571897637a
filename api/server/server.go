// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shardnode/shardnode/utils/logging"
)

const baseURL = "/ext"

var errAlreadyDispatched = errors.New("server already dispatched")

// Server maintains the HTTP router
type Server struct {
	log    logging.Logger
	router *mux.Router

	listenAddress     string
	readHeaderTimeout time.Duration

	lock     sync.Mutex
	listener net.Listener
	srv      *http.Server
}

// New returns a server that will listen on [host]:[port] once dispatched.
func New(
	log logging.Logger,
	host string,
	port uint16,
	readHeaderTimeout time.Duration,
) *Server {
	return &Server{
		log:               log,
		router:            mux.NewRouter(),
		listenAddress:     net.JoinHostPort(host, fmt.Sprint(port)),
		readHeaderTimeout: readHeaderTimeout,
	}
}

// AddRoute serves [handler] at /ext/[endpoint] for GET and POST requests.
func (s *Server) AddRoute(handler http.Handler, endpoint string) {
	url := fmt.Sprintf("%s/%s", baseURL, endpoint)
	s.log.Info("adding route",
		zap.String("url", url),
	)
	s.router.Handle(url, handler).Methods(http.MethodGet, http.MethodPost)
}

// Listen binds the listening socket and returns the address it is bound to.
func (s *Server) Listen() (net.Addr, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener != nil {
		return nil, errAlreadyDispatched
	}
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return nil, err
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.readHeaderTimeout,
	}
	s.log.Info("HTTP API server listening",
		zap.Stringer("address", listener.Addr()),
	)
	return listener.Addr(), nil
}

// Dispatch serves requests until the server is shut down. Listen must have
// been called.
func (s *Server) Dispatch() error {
	s.lock.Lock()
	srv, listener := s.srv, s.listener
	s.lock.Unlock()

	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.lock.Lock()
	srv := s.srv
	s.lock.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
