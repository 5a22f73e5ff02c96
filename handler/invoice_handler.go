package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"invoice-processor/config"
	"invoice-processor/dto"
	"invoice-processor/service"
)

// InvoiceHandler handles invoice processing requests
type InvoiceHandler struct {
	extractionService *service.ExtractionService
	labelingService   *service.LabelingService
	cfg               *config.Config
}

// NewInvoiceHandler creates a new InvoiceHandler instance
func NewInvoiceHandler(extractionService *service.ExtractionService, labelingService *service.LabelingService, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		extractionService: extractionService,
		labelingService:   labelingService,
		cfg:               cfg,
	}
}

// ProcessImage handles the POST /invoice/process-image endpoint
func (h *InvoiceHandler) ProcessImage(c *gin.Context) {
	log.Println("Received invoice image processing request")

	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A file is required", err)
		return
	}

	password := c.PostForm("password")

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = inferMimeType(file.Filename)
	}

	if !isValidMimeType(mimeType) {
		h.sendError(c, http.StatusBadRequest, "Invalid file type. Supported: PDF, PNG, JPEG", nil)
		return
	}

	reader, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read file data", err)
		return
	}

	requestID := uuid.New().String()[:8]
	log.Printf("[%s] Processing invoice file: %s (%d bytes)", requestID, file.Filename, len(fileData))

	ctx := context.Background()
	extraction, err := h.extractionService.ExtractFromImage(ctx, fileData, mimeType, password)
	if err != nil {
		if errors.Is(err, dto.ErrRecognizerUnavailable) {
			h.sendError(c, http.StatusServiceUnavailable, "Recognition engine unavailable", err)
			return
		}
		if strings.Contains(err.Error(), "decrypt") {
			h.sendError(c, http.StatusBadRequest, "Failed to decrypt PDF. Check password.", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to extract amounts from file", err)
		return
	}

	h.dumpArtifact(requestID, "extracted", extraction.Records)

	labeled, err := h.labelingService.LabelAmounts(ctx, extraction.Records)
	if err != nil {
		if errors.Is(err, dto.ErrLabelerUnavailable) {
			h.sendError(c, http.StatusServiceUnavailable, "Labeling model unavailable", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to label extracted amounts", err)
		return
	}

	response := dto.InvoiceResponse{
		LabeledResult: *labeled,
		PaymentQR:     extraction.PaymentQR,
	}
	h.dumpArtifact(requestID, "labeled", response)

	log.Printf("[%s] Invoice processing completed successfully", requestID)
	c.JSON(http.StatusOK, response)
}

// ProcessText handles the POST /invoice/process-text endpoint
func (h *InvoiceHandler) ProcessText(c *gin.Context) {
	log.Println("Received invoice text processing request")

	var request dto.TextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	requestID := uuid.New().String()[:8]
	records := h.extractionService.ExtractFromText(request.Text)
	h.dumpArtifact(requestID, "extracted", records)

	ctx := context.Background()
	labeled, err := h.labelingService.LabelAmounts(ctx, records)
	if err != nil {
		if errors.Is(err, dto.ErrLabelerUnavailable) {
			h.sendError(c, http.StatusServiceUnavailable, "Labeling model unavailable", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to label extracted amounts", err)
		return
	}
	h.dumpArtifact(requestID, "labeled", labeled)

	log.Printf("[%s] Invoice text processing completed successfully", requestID)
	c.JSON(http.StatusOK, labeled)
}

// dumpArtifact writes an intermediate result as JSON for offline
// inspection. Disabled unless DEBUG_DUMP_DIR is configured; failures
// are logged and never fail the request.
func (h *InvoiceHandler) dumpArtifact(requestID, stage string, v interface{}) {
	if h.cfg == nil || h.cfg.DebugDumpDir == "" {
		return
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		log.Printf("[%s] Failed to marshal %s artifact: %v", requestID, stage, err)
		return
	}

	path := filepath.Join(h.cfg.DebugDumpDir, requestID+"_"+stage+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[%s] Failed to write %s artifact: %v", requestID, stage, err)
	}
}

// sendError sends a structured error response
func (h *InvoiceHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "INVOICE_PROCESSING_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

// isValidMimeType checks if the MIME type is supported
func isValidMimeType(mimeType string) bool {
	validTypes := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
		"image/jpg",
	}

	mimeType = strings.ToLower(mimeType)
	for _, valid := range validTypes {
		if strings.Contains(mimeType, valid) {
			return true
		}
	}
	return false
}

// inferMimeType infers MIME type from file extension
func inferMimeType(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".pdf") {
		return "application/pdf"
	} else if strings.HasSuffix(lower, ".png") {
		return "image/png"
	} else if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	return ""
}
