package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // SQL sentinel errors
	"log"          // server-side logging of failures the client never sees
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls and session TTLs

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/covoiturage-api/internal/config"     // app configuration
	"github.com/iliyamo/covoiturage-api/internal/model"      // row structs
	"github.com/iliyamo/covoiturage-api/internal/repository" // DB repositories
	"github.com/iliyamo/covoiturage-api/internal/session"    // bearer session store
	"github.com/iliyamo/covoiturage-api/internal/utils"      // token minting, hashing
)

// genericResetMsg is returned by forgot-password for existing and unknown
// emails alike, so the endpoint cannot be used to enumerate accounts.
const genericResetMsg = "Si cet email existe, vous recevrez un lien de réinitialisation."

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Resets   *repository.PasswordResetRepo
	Sessions session.Store
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, pr *repository.PasswordResetRepo, s session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Resets: pr, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Nom       string  `json:"nom"`
	Prenom    string  `json:"prenom"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone"`
	Residence *string `json:"residence"`
	Password  string  `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
type loginResp struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Register creates an account.  Email uniqueness rests on the database's
// unique index; a duplicate insert is reported, never silently merged.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requête invalide"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Nom == "" || req.Prenom == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Champs obligatoires manquants (nom, prénom, email, password)",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		Nom:       strings.TrimSpace(req.Nom),
		Prenom:    strings.TrimSpace(req.Prenom),
		Email:     req.Email,
		Telephone: req.Telephone,
		Residence: req.Residence,
	}
	uid, err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cet email est déjà utilisé"})
		}
		log.Printf("register: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur lors de l'inscription"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Compte créé avec succès",
		"userId":  uid,
	})
}

// Login verifies credentials and mints an opaque session token.  A wrong
// password and an unknown email answer the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requête invalide"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email et mot de passe requis"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Email ou mot de passe incorrect"})
		}
		log.Printf("login: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Email ou mot de passe incorrect"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionTTLHours)
	if err != nil {
		log.Printf("login: token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	ttl := time.Duration(h.Cfg.SessionTTLHours) * time.Hour
	if err := h.Sessions.Put(ctx, tok.Raw, u.ID, ttl); err != nil {
		log.Printf("login: session store failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}

	return c.JSON(http.StatusOK, loginResp{Token: tok.Raw, User: u.Public()})
}

// Logout removes the caller's session from the store.  The token comes
// from the auth gate, so reaching this handler implies it was valid.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token != "" {
		if err := h.Sessions.Delete(c.Request().Context(), token); err != nil {
			log.Printf("logout: session delete failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Déconnexion réussie"})
}

// ForgotPassword starts the reset flow.  Whatever happens (unknown email,
// storage failure) the response body is identical, so the endpoint leaks
// nothing about which emails are registered.  The reset link is logged
// instead of mailed; delivery is owned by an external system.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requête invalide"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email requis"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("forgot-password: lookup failed: %v", err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
	}

	tok, err := utils.NewResetToken()
	if err != nil {
		log.Printf("forgot-password: token generation failed: %v", err)
		return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
	}
	if err := h.Resets.Replace(ctx, req.Email, tok.Raw, tok.Exp); err != nil {
		log.Printf("forgot-password: token store failed: %v", err)
		return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
	}

	log.Printf("forgot-password: reset link for %s: /reset-password?token=%s", req.Email, tok.Raw)
	return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
}

// ResetPassword completes the flow: a valid, unexpired token overwrites
// the account password and is consumed so it cannot be replayed.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Token et nouveau mot de passe requis"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	email, err := h.Resets.Validate(ctx, req.Token)
	if err != nil {
		if err == repository.ErrTokenInvalid {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Token invalide ou expiré"})
		}
		log.Printf("reset-password: validate failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}

	if err := h.Users.UpdatePassword(ctx, email, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		log.Printf("reset-password: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erreur serveur"})
	}
	if err := h.Resets.Consume(ctx, req.Token); err != nil {
		log.Printf("reset-password: consume failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Mot de passe mis à jour avec succès"})
}
