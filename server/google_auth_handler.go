package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/server/response"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

func (s *Server) googleOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.Config.GoogleClientID,
		ClientSecret: s.Config.GoogleClientSecret,
		RedirectURL:  s.Config.GoogleRedirectURL,
		Scopes:       []string{"email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// handleGoogleRedirect starts the server-side OAuth flow. The state
// nonce round-trips through a short-lived cookie.
func (s *Server) handleGoogleRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		state := base64.URLEncoding.EncodeToString(b)

		c.SetCookie("oauth_state", state, 300, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, s.googleOauthConfig().AuthCodeURL(state))
	}
}

// handleGoogleCallback exchanges the code, reads the Google profile and
// signs the identity in through the same path as the client-side flow.
func (s *Server) handleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		expectedState, err := c.Cookie("oauth_state")
		if err != nil || c.Query("state") != expectedState {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid oauth state", http.StatusBadRequest))
			return
		}

		token, err := s.googleOauthConfig().Exchange(c.Request.Context(), c.Query("code"))
		if err != nil {
			log.Printf("google code exchange failed: %v", err)
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("could not verify google login", http.StatusUnauthorized))
			return
		}

		client := s.googleOauthConfig().Client(c.Request.Context(), token)
		resp, err := client.Get(googleUserInfoURL)
		if err != nil {
			log.Printf("google userinfo request failed: %v", err)
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("could not verify google login", http.StatusUnauthorized))
			return
		}
		defer resp.Body.Close()

		var profile struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("could not verify google login", http.StatusUnauthorized))
			return
		}

		loginResponse, apiErr := s.AuthService.GoogleLoginUser(&models.GoogleLoginRequest{
			Email:    profile.Email,
			Fullname: profile.Name,
			GoogleID: profile.ID,
		})
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}
