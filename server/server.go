package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
	"github.com/techagentng/roadguard/chatbot"
	"github.com/techagentng/roadguard/config"
	"github.com/techagentng/roadguard/db"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/services"
	"github.com/techagentng/roadguard/storage"
)

var validationTranslator ut.Translator

func init() {
	english := en.New()
	validationTranslator, _ = ut.New(english, english).GetTranslator("en")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = entranslations.RegisterDefaultTranslations(v, validationTranslator)
	}
}

// Server wires the repositories and services behind the HTTP surface.
type Server struct {
	Config              *config.Config
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	PostService         services.PostService
	VerificationService services.VerificationService
	RewardService       services.RewardService
	ReviewService       services.ReviewService
	DashboardService    services.DashboardService
	ImageStore          storage.ImageStore
	Chatbot             *chatbot.Client
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains for up
// to 10 seconds.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exiting")
}

// decode binds the request body onto v, translating field-validation
// failures into readable messages, and normalizes whitespace on
// conform-tagged fields.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if translated := models.TranslateError(err, validationTranslator); len(translated) > 0 {
			msgs := make([]string, 0, len(translated))
			for _, e := range translated {
				msgs = append(msgs, e.Error())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return conform.Strings(v)
}
