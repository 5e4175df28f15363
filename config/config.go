package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI       string
	DatabaseName   string
	Port           string
	GeminiAPIKey   string
	JWTSecret      string
	AWSRegion      string
	AWSBucketName  string
	SendGridAPIKey string
	CatalogAPIURL  string
	CatalogPageURL string
	ShareBaseURL   string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	DatabaseName = os.Getenv("DATABASE_NAME")
	if DatabaseName == "" {
		DatabaseName = "fitly"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	JWTSecret = os.Getenv("JWT_SECRET")

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")

	CatalogAPIURL = os.Getenv("CATALOG_API_URL")
	CatalogPageURL = os.Getenv("CATALOG_PAGE_URL")

	ShareBaseURL = os.Getenv("SHARE_BASE_URL")
	if ShareBaseURL == "" {
		ShareBaseURL = "http://localhost:" + Port
	}
}
