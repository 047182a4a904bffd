// Package adminapi exposes the engine's HTTP control plane: scene
// save/load/list endpoints and a JWT-gated session login, built on
// gin-gonic/gin, golang-jwt/jwt/v5, and gorilla/sessions — the
// teacher's web stack.
package adminapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"

	"nonagonengine/internal/scenestore"
)

// SceneStore is the subset of scenestore.Store the API depends on.
type SceneStore interface {
	Save(slot, document string) error
	Load(slot string) (string, error)
	List() ([]string, error)
	Delete(slot string) error
}

var _ SceneStore = (*scenestore.Store)(nil)

// Server wires the HTTP routes to a scene store, a JWT secret for
// issuing admin tokens, and a cookie store for the login session.
type Server struct {
	Engine *gin.Engine

	store      SceneStore
	jwtSecret  []byte
	cookies    *sessions.CookieStore
}

// NewServer builds the route table. jwtSecret signs API bearer tokens;
// sessionKey keys the browser login cookie.
func NewServer(store SceneStore, jwtSecret, sessionKey []byte) *Server {
	s := &Server{
		Engine:    gin.Default(),
		store:     store,
		jwtSecret: jwtSecret,
		cookies:   sessions.NewCookieStore(sessionKey),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Engine.POST("/login", s.handleLogin)

	api := s.Engine.Group("/api/scenes")
	api.Use(s.requireJWT)
	api.GET("", s.handleList)
	api.GET("/:slot", s.handleLoad)
	api.PUT("/:slot", s.handleSave)
	api.DELETE("/:slot", s.handleDelete)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin issues a bearer JWT for any non-empty credential pair;
// real credential checking is the host's responsibility via a
// pluggable Authenticator (not modeled here — out of scope per §4's
// engine-internal focus).
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := jwt.MapClaims{
		"sub": req.Username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}

	session, _ := s.cookies.Get(c.Request, "nonagon-session")
	session.Values["username"] = req.Username
	_ = session.Save(c.Request, c.Writer)

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func (s *Server) requireJWT(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Next()
}

func (s *Server) handleList(c *gin.Context) {
	slots, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (s *Server) handleLoad(c *gin.Context) {
	doc, err := s.store.Load(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(doc))
}

type saveRequest struct {
	Document string `json:"document" binding:"required"`
}

func (s *Server) handleSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.Save(c.Param("slot"), req.Document); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.store.Delete(c.Param("slot")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
