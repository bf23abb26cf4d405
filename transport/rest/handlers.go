package rest

import (
	"context"
	"encoding/json"
	"net/http"
)

type ratingRepo interface {
	GetByIdentity(ctx context.Context, identity string) (int64, error)
}

type ratingResponse struct {
	Identity string `json:"identity"`
	Rating   int64  `json:"rating"`
}

func (that *Server) handleRating(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleRating")

	identity := req.PathValue("identity")

	rating, err := that.ratings.GetByIdentity(req.Context(), identity)
	if err != nil {
		log.Error("failed to get rating", "identity", identity, "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(writer).Encode(ratingResponse{Identity: identity, Rating: rating}); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
