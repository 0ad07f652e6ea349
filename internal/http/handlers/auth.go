package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/http/middleware"
	"fleetflow/internal/repositories"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		RespondError(c, http.StatusBadRequest, "email, password and full_name are required", nil)
		return
	}
	if !domain.IsValidRole(req.Role) {
		RespondError(c, http.StatusBadRequest, "invalid role, must be: manager, dispatcher, safety, analyst", nil)
		return
	}

	users := repositories.UsersRepository{}
	exists, err := users.EmailExists(req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		RespondError(c, http.StatusConflict, "email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", nil)
		return
	}

	user, err := users.Insert(models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Status:       "active",
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	token, err := middleware.SignToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.ToPublic()})
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	users := repositories.UsersRepository{}
	user, err := users.GetByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := middleware.SignToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.ToPublic()})
}

// GET /api/auth/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.Principal(c)})
}
