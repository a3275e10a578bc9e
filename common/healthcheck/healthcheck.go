package healthcheck

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/codetanks/codetanks/common/utils"
	"github.com/gorilla/mux"
)

type HealthCheckServer struct {
	addr string

	mu       sync.Mutex
	checkers []namedChecker
	server   *http.Server
	listener net.Listener
}

type HealthChecks struct {
	Status bool   `json:"status"`
	Name   string `json:"name"`
	Error  string `json:"error,omitempty"`
}

type HealthCheckHttpResponse struct {
	Checks     []HealthChecks `json:"checks"`
	StatusCode int            `json:"status_code"`
}

type HealthCheckHandler func() (err error, ok bool)

type namedChecker struct {
	name    string
	handler HealthCheckHandler
}

func (server *HealthCheckServer) httpHandler(w http.ResponseWriter, r *http.Request) {
	res := HealthCheckHttpResponse{
		Checks:     make([]HealthChecks, 0),
		StatusCode: http.StatusOK,
	}

	server.mu.Lock()
	checkers := append([]namedChecker(nil), server.checkers...)
	server.mu.Unlock()

	for _, checker := range checkers {
		err, ok := checker.handler()

		check := HealthChecks{
			Name:   checker.name,
			Status: err == nil && ok,
		}

		if err != nil {
			check.Error = err.Error()
		}

		if !check.Status {
			res.StatusCode = http.StatusInternalServerError
		}

		res.Checks = append(res.Checks, check)
	}

	data, err := json.Marshal(res)
	utils.Check(err, "Failed to marshal response")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	w.Write(data)
}

func NewHealthCheckServer(addr string) *HealthCheckServer {
	return &HealthCheckServer{
		addr: addr,
	}
}

func (server *HealthCheckServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", server.httpHandler).Methods("GET")

	return router
}

// Listen binds the address and serves in the background.
func (server *HealthCheckServer) Listen() error {
	listener, err := net.Listen("tcp", server.addr)
	if err != nil {
		return err
	}

	server.mu.Lock()
	server.listener = listener
	server.server = &http.Server{Handler: server.Handler()}
	httpServer := server.server
	server.mu.Unlock()

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			utils.Debug("healthcheck", "Healthcheck server stopped: "+err.Error())
		}
	}()

	return nil
}

func (server *HealthCheckServer) Addr() string {
	server.mu.Lock()
	defer server.mu.Unlock()

	if server.listener == nil {
		return server.addr
	}

	return server.listener.Addr().String()
}

func (server *HealthCheckServer) Register(name string, handler HealthCheckHandler) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.checkers = append(server.checkers, namedChecker{name: name, handler: handler})
}

func (server *HealthCheckServer) Stop() error {
	server.mu.Lock()
	httpServer := server.server
	server.mu.Unlock()

	if httpServer == nil {
		return nil
	}

	return httpServer.Shutdown(context.Background())
}
