package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/alecthomas/units"
	"github.com/canopy-network/fundpolls/controller"
	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"

	shutdownTimeout = 5 * time.Second
)

// Server is the json rpc of a polls node
type Server struct {
	// polls node controller
	controller *controller.Controller

	// polls node configuration
	config lib.Config

	// turns raw addresses and public keys of requests into accounts
	resolver fsm.ResolverI

	logger lib.LoggerI
}

// NewServer constructs and returns a new polls RPC server
func NewServer(controller *controller.Controller, config lib.Config, logger lib.LoggerI) *Server {
	return &Server{
		controller: controller,
		config:     config,
		resolver:   fsm.NewResolver(),
		logger:     logger,
	}
}

// Handler() wraps the router with the CORS policy and the request timeout
func (s *Server) Handler() http.Handler {
	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})
	// Create a default timeout for HTTP requests
	timeout := time.Duration(s.config.TimeoutS) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(lib.DefaultRPCConfig().TimeoutS) * time.Second
	}
	return cor.Handler(http.TimeoutHandler(createRouter(s), timeout, lib.ErrServerTimeout().Error()))
}

// Start() serves the RPC until the context is cancelled
func (s *Server) Start(ctx context.Context) lib.ErrorI {
	srv := &http.Server{Addr: colon + s.config.RPCPort, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting RPC server at 0.0.0.0:%s", s.config.RPCPort)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ErrStartServer(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("rpc shutdown failed with err: %s", err.Error())
		}
		return nil
	}
}

// readOnly() executes the query against the latest state and writes its result or error
func (s *Server) readOnly(w http.ResponseWriter, callback func(sm *fsm.StateMachine) (any, lib.ErrorI)) {
	var result any
	if err := s.controller.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		result, e = callback(sm)
		return
	}); err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// resolve() turns the raw request address into an account, writing the error if it can't
func (s *Server) resolve(w http.ResponseWriter, raw string) (crypto.Address, bool) {
	address, err := s.resolver.Resolve(raw)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return nil, false
	}
	return address, true
}

// unmarshal the size limited request body into ptr; an empty body leaves ptr untouched
func (s *Server) unmarshal(w http.ResponseWriter, r *http.Request, ptr interface{}) bool {
	limit := s.config.MaxRequestBytes
	if limit <= 0 {
		limit = int64(units.MB)
	}
	defer func() { _ = r.Body.Close() }()
	bz, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	if len(bz) == 0 {
		return true
	}
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	return true
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)
	// Marshal and indent the payload
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}

// logHandler serves as a middleware that logs incoming RPC calls for debugging purposes
type logHandler struct {
	path   string
	h      httprouter.Handle
	logger lib.LoggerI
}

// Handle
func (h logHandler) Handle(resp http.ResponseWriter, req *http.Request, p httprouter.Params) {
	h.logger.Debugf("rpc %s %s", req.Method, h.path)
	h.h(resp, req, p)
}
