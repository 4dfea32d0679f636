package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
)

// UserLister defines the interface that the user listing service must implement.
type UserLister interface {
	List(ctx context.Context) ([]models.UserDB, error)
}

// UserOut represents one user in the listing
// swagger:model UserOut
type UserOut struct {
	// Username
	// default: john_doe
	Username string `json:"username"`

	// Email
	// default: john@example.com
	Email string `json:"email"`

	// Registration timestamp
	JoinedAt time.Time `json:"joined_at"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns all registered users
// @Tags users
// @Produce json
// @Success 200 {array} handlers.UserOut "Registered users"
// @Router /user [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		out := make([]UserOut, 0, len(users))
		for _, u := range users {
			out = append(out, UserOut{
				Username: u.Username,
				Email:    u.Email,
				JoinedAt: u.JoinedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(out)
	}
}
