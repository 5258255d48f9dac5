package api

import (
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/triviad/round"
	"github.com/the-lightning-land/triviad/statedb"
	"net/http"
)

type postButtonResponse struct {
	Key string `json:"key"`
}

func (a *Api) handleGetRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := statedb.Latest(a.store)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusNotFound)
			return
		}

		a.jsonResponse(w, snapshot, http.StatusOK)
	}
}

func (a *Api) handlePostButton() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := round.ParseKey(mux.Vars(r)["key"])
		if !ok {
			a.jsonError(w, "key must be one of A, B or C", http.StatusBadRequest)
			return
		}

		err := a.machine.Inject(r.Context(), string(key))
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		a.log.Infof("Pressed button %v", key)

		a.jsonResponse(w, &postButtonResponse{Key: string(key)}, http.StatusOK)
	}
}
