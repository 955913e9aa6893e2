package main

import (
	"net/http"
	"strings"

	"smartcity/libs/backend"
	"smartcity/libs/citydata"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *citydata.User `json:"user,omitempty"`
}

// loginHandler always answers 200 with {success, error?, user?} so the login
// form can render feedback inline. Only an unparseable body is a 400.
func (a *App) loginHandler(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid login payload"})
		return
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		c.JSON(http.StatusOK, backend.LoginResult{Error: "Email and password are required"})
		return
	}

	result := a.backend.Login(c.Request.Context(), email, payload.Password)
	if !result.Success {
		a.log.Info("login failed", "email", email, "reason", result.Error)
		c.JSON(http.StatusOK, result)
		return
	}

	a.setSessionUser(result.User)
	a.log.Info("login succeeded", "email", email)
	c.JSON(http.StatusOK, result)
}

func (a *App) logoutHandler(c *gin.Context) {
	a.clearSession(c.Request.Context(), "logout")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *App) sessionHandler(c *gin.Context) {
	if _, ok := a.tokens.Token(); !ok {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: a.currentSessionUser()})
}
