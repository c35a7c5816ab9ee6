package identity

import (
	"net/http"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer handles HTTP requests related to authentication.
type IdentityServer struct {
	authService i.Authenticator
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator) *IdentityServer {
	return &IdentityServer{
		authService: a,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.registerUser)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

func (c *IdentityServer) registerUser(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.authService.Register(request.Username, request.Password); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := c.authService.SignIn(request.Username, request.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &AuthResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Token:    token,
	})
}
