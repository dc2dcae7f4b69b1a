package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/akolanti/CareerRAG/internal/adapter/utils"
	"github.com/akolanti/CareerRAG/internal/api"
	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/metrics"
	"github.com/akolanti/CareerRAG/internal/rag"
	"github.com/akolanti/CareerRAG/internal/rag/ingest"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

var (
	handlerInstance *universityHandler //private singleton
	once            sync.Once
	logUH           *logger_i.Logger
	logRH           *logger_i.Logger
)

type universityHandler struct {
	registry   *registry.Registry
	ragService rag.Service
}

func InitHandlers(reg *registry.Registry, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &universityHandler{registry: reg, ragService: ragService}

		logUH = logger_i.NewLogger("UniversityHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logUH.Info("Starting university handler")
	})
}

// IndexHandler godoc
// @Summary      Front-end page
// @Description  Serves the chat front end.
// @Tags         Pages
// @Produce      html
// @Success      200  {string}  string  "rendered page"
// @Router       / [get]
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, config.IndexPagePath)
}

// ListUniversitiesHandler godoc
// @Summary      List available universities
// @Description  Returns every loaded university with its record count.
// @Tags         Universities
// @Produce      json
// @Success      200  {object}  api.UniversityListResponse
// @Router       /api/universities [get]
func ListUniversitiesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	universities := make([]api.UniversityInfo, 0)
	for _, dataset := range handlerInstance.registry.List() {
		universities = append(universities, api.UniversityInfo{
			Name:          dataset.Name,
			DocumentCount: len(dataset.Records),
		})
	}
	writeJsonResponse(w, http.StatusOK, api.UniversityListResponse{Universities: universities})
}

// UploadUniversityHandler godoc
// @Summary      Upload a university CSV
// @Description  Receives a career-services CSV via multipart/form-data, validates its structure, and registers the university.
// @Tags         Universities
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The CSV file to upload (16MiB max)"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse "Missing/empty/non-CSV file, invalid structure, or duplicate name"
// @Failure      500  {object}  api.ErrorResponse "Processing error"
// @Router       /api/universities/upload [post]
func UploadUniversityHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer fileReader.Close()

	if fileMetadata.Filename == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileMetadata.Filename), ".csv") {
		WriteErrorResponse(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	dataset, err := ingest.IngestReader(fileReader)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			WriteErrorResponse(w, http.StatusBadRequest, "Invalid CSV structure: "+reason(err))
			return
		}
		logUH.Error("Error uploading university", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Error processing file: "+err.Error())
		return
	}

	// upload errors on duplicates, unlike the directory preload
	if err := handlerInstance.registry.Add(dataset); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("University '%s' already exists. Please delete the existing one first if you want to replace it.", dataset.Name))
		return
	}
	metrics.SetUniversitiesLoaded(handlerInstance.registry.Count())

	logUH.Info("Successfully uploaded university", "name", dataset.Name)
	writeJsonResponse(w, http.StatusOK, api.UploadResponse{
		Message: fmt.Sprintf("University '%s' uploaded successfully", dataset.Name),
		University: api.UniversityInfo{
			Name:          dataset.Name,
			DocumentCount: len(dataset.Records),
		},
	})
}

// DeleteUniversityHandler godoc
// @Summary      Delete a university
// @Description  Removes a university from the registry together with its vector collection and cached answers.
// @Tags         Universities
// @Produce      json
// @Param        name  path  string  true  "University name"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse "Unknown university"
// @Failure      500  {object}  api.ErrorResponse "Deletion error"
// @Router       /api/universities/{name} [delete]
func DeleteUniversityHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	name := utils.GetChiURLParam(r, "name")
	err := handlerInstance.ragService.DeleteUniversity(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, "University not found")
			return
		}
		logUH.Error("Error deleting university", "name", name, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Error deleting university: "+err.Error())
		return
	}
	metrics.SetUniversitiesLoaded(handlerInstance.registry.Count())

	writeJsonResponse(w, http.StatusOK, api.MessageResponse{
		Message: fmt.Sprintf("University '%s' deleted successfully", name),
	})
}

// reason strips the sentinel prefix so the user sees only the description.
func reason(err error) string {
	message := err.Error()
	if i := strings.Index(message, ": "); i >= 0 {
		return message[i+2:]
	}
	return message
}
