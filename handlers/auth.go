package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"knowledge-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the lifetime of issued bearer tokens. Tokens are stateless:
// validity is solely a function of signature and expiry, so logout cannot
// revoke one.
const tokenTTL = 7 * 24 * time.Hour

var errInvalidToken = errors.New("invalid token")

type AuthHandler struct {
	repo      *repository.UsersRepository
	jwtSecret string
}

func NewAuthHandler(repo *repository.UsersRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{repo: repo, jwtSecret: jwtSecret}
}

// issueToken signs an HS256 token bound to the user's id and email.
func issueToken(secret string, userID int, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    userID,
		"email": email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// parseToken verifies signature and expiry and returns the identity claims.
func parseToken(tokenStr, secret string) (int, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, "", errInvalidToken
	}
	email, _ := claims["email"].(string)
	return int(id), email, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware requires a valid bearer token and attaches the caller's
// id and email to the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			c.Abort()
			return
		}
		userID, email, err := parseToken(tokenStr, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token."})
			c.Abort()
			return
		}
		c.Set("userId", userID)
		c.Set("email", email)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid token
// is present, but never rejects the request. Handlers behind it see an
// unauthenticated context when the token is absent or invalid.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if userID, email, err := parseToken(tokenStr, secret); err == nil {
				c.Set("userId", userID)
				c.Set("email", email)
			}
		}
		c.Next()
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	taken, err := h.repo.EmailExists(req.Email)
	if err != nil {
		slog.Error("signup: email lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("signup: password hashing failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user, err := h.repo.CreateUser(req.Username, req.Email, string(hash))
	if err != nil {
		// Covers the check-then-insert race: the UNIQUE constraint fires here.
		slog.Error("signup: insert failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := issueToken(h.jwtSecret, user.ID, user.Email)
	if err != nil {
		slog.Error("signup: token generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "token": token, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.repo.GetUserByEmail(req.Email)
	if err != nil {
		slog.Error("login: user lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	// Unknown email and wrong password answer identically so the response
	// does not leak which one was wrong.
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := issueToken(h.jwtSecret, user.ID, user.Email)
	if err != nil {
		slog.Error("login: token generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
}

// Logout is a no-op acknowledgement. Tokens are stateless and cannot be
// invalidated server-side; clients discard them locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the caller's own record, looked up fresh from storage by the
// id in the verified token.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.repo.GetUserByID(c.GetInt("userId"))
	if err != nil {
		slog.Error("me: user lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
