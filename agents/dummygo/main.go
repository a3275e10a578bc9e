package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

func handler(p pilot) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/command", func(w http.ResponseWriter, r *http.Request) {
		var req protocol.TickRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid tick request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p.Decide(req)); err != nil {
			utils.WarnWith(errors.Wrap(err, "could not answer tick "+strconv.Itoa(int(req.Tick))))
		}
	}).Methods("POST")

	return router
}

func main() {
	addr, exists := os.LookupEnv("AGENT_ADDR")
	if !exists {
		addr = ":8080"
	}

	utils.Debug("dummygo", "Hello from dummygo ! listening on "+addr)

	if err := http.ListenAndServe(addr, handler(makePilot())); err != nil {
		utils.FailWith(err)
	}
}
