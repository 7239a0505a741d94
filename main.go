package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/verlynk/verlynk-backend/api"
	"github.com/verlynk/verlynk-backend/config"
	"github.com/verlynk/verlynk-backend/database"
	"github.com/verlynk/verlynk-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	c := config.New()

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uri := config.GetString(c, "MONGODB_URI", "mongodb://localhost:27017/")
	client, err := database.Connect(bootCtx, uri)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}

	currentDB := database.New(client, config.GetString(c, "DB_NAME", "verlynk-db"))
	if err := currentDB.EnsureIndexes(bootCtx); err != nil {
		log.Error().Err(err).Msg("Error creating indexes")
		os.Exit(1)
	}

	blobs, err := newBlobStore(c, currentDB)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing blob storage")
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, blobs)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing server")
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := currentDB.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from database")
	}
}

// newBlobStore selects the image backend. GridFS rides the existing document
// store connection; s3 is the opt-in alternative for object storage.
func newBlobStore(c map[string]string, db database.Database) (storage.BlobStore, error) {
	switch config.GetString(c, "BLOB_BACKEND", "gridfs") {
	case "s3":
		return storage.NewS3Store(storage.S3Config{
			Region:    config.GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:  config.GetString(c, "S3_ENDPOINT", ""),
			AccessKey: config.GetString(c, "S3_ACCESS_KEY", ""),
			SecretKey: config.GetString(c, "S3_SECRET_KEY", ""),
			Bucket:    config.GetString(c, "S3_BUCKET", ""),
		})
	default:
		filesDB := db.Client().Database(config.GetString(c, "FILES_DB_NAME", "verlynk-files-db"))
		return storage.NewGridFSStore(filesDB, config.GetString(c, "IMAGE_BUCKET", "images"))
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-ch)
}
