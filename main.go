package main

import (
	"context"
	"log"
	"time"

	"github.com/techagentng/roadguard/chatbot"
	"github.com/techagentng/roadguard/config"
	"github.com/techagentng/roadguard/db"
	"github.com/techagentng/roadguard/detector"
	"github.com/techagentng/roadguard/mailingservices"
	"github.com/techagentng/roadguard/sentiment"
	"github.com/techagentng/roadguard/server"
	"github.com/techagentng/roadguard/services"
	"github.com/techagentng/roadguard/storage"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)

	store := buildImageStore(conf)

	detectorClient := detector.NewClient(conf.DetectorBaseUrl, time.Duration(conf.DetectorTimeoutSeconds)*time.Second)
	chatbotClient := chatbot.NewClient(conf.ChatbotBaseUrl)
	sentimentClient := sentiment.NewClient(conf.SentimentBaseUrl)

	authRepo := db.NewAuthRepo(gormDB)
	postRepo := db.NewPostRepo(gormDB)
	verificationRepo := db.NewVerificationRepo(gormDB)
	rewardRepo := db.NewRewardRepo(gormDB)
	reviewRepo := db.NewReviewRepo(gormDB)

	authService := services.NewAuthService(authRepo, mailgunClient, store, conf)
	postService := services.NewPostService(postRepo, authRepo, rewardRepo, detectorClient, store, conf)
	verificationService := services.NewVerificationService(verificationRepo, postRepo, authRepo)
	rewardService := services.NewRewardService(rewardRepo)
	reviewService := services.NewReviewService(reviewRepo, sentimentClient)
	dashboardService := services.NewDashboardService(authRepo, postRepo, rewardRepo, reviewRepo)

	s := &server.Server{
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		PostService:         postService,
		VerificationService: verificationService,
		RewardService:       rewardService,
		ReviewService:       reviewService,
		DashboardService:    dashboardService,
		ImageStore:          store,
		Chatbot:             chatbotClient,
	}
	s.Start()
}

// buildImageStore picks S3 when a bucket is configured, otherwise local
// disk under the upload dir.
func buildImageStore(conf *config.Config) storage.ImageStore {
	if conf.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), conf.S3Bucket, conf.S3Region)
		if err != nil {
			log.Fatalf("error initializing s3 store: %v", err)
		}
		return s3Store
	}

	fileStore, err := storage.NewFileStore(conf.UploadDir, conf.BaseUrl)
	if err != nil {
		log.Fatalf("error initializing file store: %v", err)
	}
	return fileStore
}
