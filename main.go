package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"invoice-processor/client"
	"invoice-processor/config"
	"invoice-processor/handler"
	"invoice-processor/service"
	"invoice-processor/utils"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// gosseract also reads TESSDATA_PREFIX from the environment
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	log.Println("TESSDATA_PREFIX set to:", os.Getenv("TESSDATA_PREFIX"))

	// Initialize recognition clients
	paddleClient := client.NewPaddleClient(cfg.PaddleOCRURL)
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize labeling model
	labelModel, err := client.NewLabelModel(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize labeling model: %v", err)
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize amount extractor with configured tuning
	extractor := utils.NewAmountExtractor()
	extractor.RowThreshold = cfg.RowThreshold
	extractor.WindowSize = cfg.ContextWindowChars
	extractor.ContextWords = cfg.ContextWords

	// Initialize service layer
	extractionService := service.NewExtractionService(paddleClient, tesseractClient, pdfProcessor, extractor)
	labelingService := service.NewLabelingService(labelModel)

	// Initialize handler layer
	invoiceHandler := handler.NewInvoiceHandler(extractionService, labelingService, cfg)

	if cfg.DebugDumpDir != "" {
		if err := os.MkdirAll(cfg.DebugDumpDir, 0o755); err != nil {
			log.Fatalf("Failed to create debug dump directory: %v", err)
		}
	}

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Invoice Processor",
			"version": "1.0.0",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		invoice := api.Group("/invoice")
		{
			invoice.POST("/process-image", invoiceHandler.ProcessImage)
			invoice.POST("/process-text", invoiceHandler.ProcessText)
		}
	}

	// Start server
	log.Printf("Starting Invoice Processor Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
