package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/covoiturage-api/internal/model"
	"github.com/iliyamo/covoiturage-api/internal/repository"
)

// defaultDepart is stored when the client omits a departure point; the
// mobile app shows it as the rider's current position.
const defaultDepart = "Position actuelle"

// TripHandler bundles repositories for trip and favorite endpoints.  All
// routes behind it run after the auth gate, so a user id is always in
// context.
type TripHandler struct {
	Trips     *repository.TripRepo
	Favorites *repository.FavoriteRepo
}

func NewTripHandler(trips *repository.TripRepo, favs *repository.FavoriteRepo) *TripHandler {
	if trips == nil || favs == nil {
		panic("nil repository passed to NewTripHandler")
	}
	return &TripHandler{Trips: trips, Favorites: favs}
}

type createTripReq struct {
	Depart      string `json:"depart"`
	Destination string `json:"destination"`
	DateDepart  string `json:"date_depart"`
	HeureDepart string `json:"heure_depart"`
	Places      int    `json:"places"`
}

type updateTripReq struct {
	Depart      string `json:"depart"`
	Destination string `json:"destination"`
	Heure       string `json:"heure"`
	Places      int    `json:"places"`
}

// CreateTrip handles POST /api/client/trajets.  Date and time arrive as
// separate fields and are persisted as one combined string.
func (h *TripHandler) CreateTrip(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requête invalide"})
	}
	if req.Destination == "" || req.Places <= 0 || req.DateDepart == "" || req.HeureDepart == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Champs manquants"})
	}
	depart := strings.TrimSpace(req.Depart)
	if depart == "" {
		depart = defaultDepart
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Trip{
		UserID:      userID,
		Depart:      depart,
		Destination: req.Destination,
		Heure:       fmt.Sprintf("%s %s", req.DateDepart, req.HeureDepart),
		Places:      req.Places,
	}
	if err := h.Trips.Create(ctx, &t); err != nil {
		log.Printf("trips: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, t)
}

// ListMine handles GET /api/client/mes-trajets and returns the caller's
// trips, latest departure first.
func (h *TripHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trips, err := h.Trips.ListByOwner(ctx, userID)
	if err != nil {
		log.Printf("trips: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, trips)
}

// UpdateTrip handles PUT /api/client/trajets/:id.  The ownership predicate
// lives in the repository; a trip belonging to someone else and a missing
// trip are indistinguishable 404s.
func (h *TripHandler) UpdateTrip(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identifiant invalide"})
	}
	var req updateTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requête invalide"})
	}
	if req.Destination == "" || req.Heure == "" || req.Places <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Champs manquants"})
	}
	depart := strings.TrimSpace(req.Depart)
	if depart == "" {
		depart = defaultDepart
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Trips.Update(ctx, id, userID, depart, req.Destination, req.Heure, req.Places); err != nil {
		if err == repository.ErrTripNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Trajet non trouvé"})
		}
		log.Printf("trips: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Trajet modifié avec succès"})
}

// DeleteTrip handles DELETE /api/client/trajets/:id with the same
// ownership rules as UpdateTrip.
func (h *TripHandler) DeleteTrip(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identifiant invalide"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Trips.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrTripNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Trajet non trouvé ou non autorisé"})
		}
		log.Printf("trips: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Trajet supprimé avec succès"})
}

// ToggleFavorite handles POST /api/client/favoris/:trajetId.  Any
// authenticated user may star any trip id; the repository makes the flip
// atomic.
func (h *TripHandler) ToggleFavorite(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	tripID, err := strconv.ParseUint(c.Param("trajetId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identifiant invalide"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	starred, err := h.Favorites.Toggle(ctx, userID, tripID)
	if err != nil {
		log.Printf("favorites: toggle failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, echo.Map{"favori": starred})
}

// ListFavorites handles GET /api/client/favoris.
func (h *TripHandler) ListFavorites(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trips, err := h.Favorites.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("favorites: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	return c.JSON(http.StatusOK, trips)
}
