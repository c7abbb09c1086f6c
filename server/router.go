package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/storage"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	// Locally stored images are served straight off disk. With S3 the
	// image URLs point at the bucket and this mount is unused.
	if fs, ok := s.ImageStore.(*storage.FileStore); ok {
		router.Static("/uploads", fs.Dir())
	}

	apirouter := router.Group("/api")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/google", s.handleGoogleLogin())
	apirouter.GET("/auth/google/redirect", s.handleGoogleRedirect())
	apirouter.GET("/auth/google/callback", s.handleGoogleCallback())
	apirouter.POST("/password/forgot", limitRateForPasswordReset(), s.handleForgotPassword())
	apirouter.POST("/password/reset/:token", s.handleResetPassword())

	apirouter.GET("/posts", s.handleGetAllPosts())
	apirouter.GET("/posts/filter", s.handleFilterPosts())
	apirouter.GET("/posts/by-status", s.handleGetPostsByStatus())
	apirouter.GET("/posts/locations", s.handleGetPostLocations())
	apirouter.GET("/posts/:id", s.handleGetPost())
	apirouter.GET("/posts/:id/votes", s.handleGetVoteCounts())
	apirouter.GET("/reviews", s.handleGetAllReviews())
	apirouter.POST("/chat", s.handleChat())
	apirouter.GET("/chat/ws", s.handleChatWebsocket())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditUserProfile())
	authorized.POST("/me/verify-identity", s.handleVerifyIdentity())
	authorized.GET("/me/points", s.handleGetPointBalance())
	authorized.POST("/upload", s.handleCreatePost())
	authorized.POST("/posts/:id/verify", s.handleCastVote())
	authorized.DELETE("/posts/:id", s.handleDeletePost())
	authorized.POST("/reviews", s.handleCreateReview())

	staff := authorized.Group("/")
	staff.Use(s.RequireRole(models.RoleStaff, models.RoleAdmin))
	staff.PUT("/posts/:id/status", s.handleUpdatePostStatus())

	admin := authorized.Group("/admin")
	admin.Use(s.RequireRole(models.RoleAdmin))
	admin.GET("/users", s.handleGetAllUsers())
	admin.POST("/users", s.handleAdminCreateUser())
	admin.PUT("/users/:id/role", s.handleUpdateUserRole())
	admin.DELETE("/users/:id", s.handleDeleteUser())
	admin.GET("/rewards", s.handleGetAllRewards())
	admin.GET("/dashboard", s.handleDashboardStats())
	admin.GET("/dashboard/growth", s.handleDashboardGrowth())
	admin.DELETE("/reviews/:id", s.handleDeleteReview())
}
