package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts every resource handler on r. Literal segments are
// registered before their variable siblings so mux resolves them first.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.healthz()).Methods(http.MethodGet)

	r.HandleFunc("/blocks", s.blocksList()).Methods(http.MethodGet)
	r.HandleFunc("/blocks/{id}", s.blockDetail()).Methods(http.MethodGet)

	r.HandleFunc("/extrinsics", s.extrinsicsList()).Methods(http.MethodGet)
	r.HandleFunc("/extrinsics/{id}", s.extrinsicDetail()).Methods(http.MethodGet)

	r.HandleFunc("/events", s.eventsList()).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", s.eventDetail()).Methods(http.MethodGet)

	r.HandleFunc("/logs", s.logsList()).Methods(http.MethodGet)
	r.HandleFunc("/logs/{id}", s.logDetail()).Methods(http.MethodGet)

	r.HandleFunc("/balances/transfers", s.transfersList()).Methods(http.MethodGet)
	r.HandleFunc("/balances/transfers/{id}", s.transferDetail()).Methods(http.MethodGet)
	r.HandleFunc("/balances/history", s.historyMissingDID()).Methods(http.MethodGet)
	r.HandleFunc("/balances/history/{did}", s.balanceHistory()).Methods(http.MethodGet)

	r.HandleFunc("/accounts", s.accountsList()).Methods(http.MethodGet)
	r.HandleFunc("/accounts/top-holders", s.topHolders()).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}", s.accountDetail()).Methods(http.MethodGet)

	r.HandleFunc("/sessions", s.sessionsList()).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.sessionDetail()).Methods(http.MethodGet)
	r.HandleFunc("/session-validators", s.sessionValidatorsList()).Methods(http.MethodGet)
	r.HandleFunc("/session-validators/{id}", s.sessionValidatorDetail()).Methods(http.MethodGet)
	r.HandleFunc("/session-nominators", s.sessionNominatorsList()).Methods(http.MethodGet)

	r.HandleFunc("/runtimes", s.runtimesList()).Methods(http.MethodGet)
	r.HandleFunc("/runtimes/{id}", s.runtimeDetail()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-modules", s.runtimeModulesList()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-modules/{id}", s.runtimeModuleDetail()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-calls", s.runtimeCallsList()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-calls/{id}", s.runtimeCallDetail()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-events", s.runtimeEventsList()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-events/{id}", s.runtimeEventDetail()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-types", s.runtimeTypesList()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-storage/{id}", s.runtimeStorageDetail()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-constants", s.runtimeConstantsList()).Methods(http.MethodGet)
	r.HandleFunc("/runtime-constants/{id}", s.runtimeConstantDetail()).Methods(http.MethodGet)

	r.HandleFunc("/stats/{currency}", s.statsDetail()).Methods(http.MethodGet)
	r.HandleFunc("/stats/{currency}/{field}", s.statsField()).Methods(http.MethodGet)
	r.HandleFunc("/networkstats/{currency}", s.networkStats()).Methods(http.MethodGet)
}

func (s *Server) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if s.health != nil {
			if err := s.health(r.Context()); err != nil {
				s.log.WithError(err).Warn("health check failed")
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
