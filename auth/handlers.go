package auth

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GhazanSubz/fypstudio-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type Handler struct {
	DB          *gorm.DB
	GoogleOAuth *GoogleOAuth
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:          db,
		GoogleOAuth: NewGoogleOAuth(),
	}
}

// InitiateGoogleLogin starts the OAuth flow
func (h *Handler) InitiateGoogleLogin(c *gin.Context) {
	// Random state token for CSRF protection
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 3600, "/", "", false, true)

	url := h.GoogleOAuth.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles the OAuth callback and establishes a session
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	storedState, _ := c.Cookie("oauth_state")

	if state == "" || state != storedState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state token"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No authorization code"})
		return
	}

	googleUser, err := h.GoogleOAuth.GetUserInfo(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}

	// Find or create user
	var user models.User
	result := h.DB.Where("google_id = ?", googleUser.ID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		user = *models.CreateUserFromGoogle(*googleUser)
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	h.DB.Save(&user)

	session, err := models.NewSession(user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	if err := h.DB.Create(session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie("session_token", session.SessionToken, int(models.SessionLifetime.Seconds()), "/", "", false, true)
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	frontendURL := os.Getenv("FRONTEND_URL")
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/dashboard", frontendURL))
}

// GetCurrentUser returns the authenticated user's info
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetAPIToken issues a Bearer JWT for CLI clients. Requires an
// existing authenticated session.
func (h *Handler) GetAPIToken(c *gin.Context) {
	userID := c.GetUint("user_id")
	email := c.GetString("email")

	token, err := GenerateJWT(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout deletes the caller's session and clears cookies
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie("session_token"); err == nil && token != "" {
		h.DB.Where("session_token = ?", token).Delete(&models.Session{})
	}
	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
