package analyses

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JaimeStill/vigil/pkg/handlers"
	"github.com/JaimeStill/vigil/pkg/routes"
)

// multipartOverhead is the per-part allowance for boundaries and part
// headers on top of the image bytes.
const multipartOverhead = 16 << 10

// Handler provides HTTP endpoints for analysis and speech operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	maxBatchSize  int
}

// NewHandler creates a Handler with the given system, logger, and upload limits.
func NewHandler(
	sys System,
	logger *slog.Logger,
	maxUploadSize int64,
	maxBatchSize int,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "analyses"),
		maxUploadSize: maxUploadSize,
		maxBatchSize:  maxBatchSize,
	}
}

// Routes returns the route groups for analysis and speech endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/analyses",
				Tags:   []string{"Analyses"},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: h.Analyze, OpenAPI: Spec.Analyze},
					{Method: "POST", Pattern: "/audio", Handler: h.Audio, OpenAPI: Spec.Audio},
					{Method: "POST", Pattern: "/detections", Handler: h.Detections, OpenAPI: Spec.Detections},
					{Method: "POST", Pattern: "/batch", Handler: h.Batch, OpenAPI: Spec.Batch},
				},
			},
			{
				Prefix: "/speech",
				Tags:   []string{"Speech"},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: h.Speech, OpenAPI: Spec.Speech},
				},
			},
		},
	}
}

// Analyze assesses the uploaded image and returns the report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	img, err := h.readImage(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	analysis, err := h.sys.Analyze(r.Context(), img.Data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, analysis)
}

// Audio assesses the uploaded image and returns the spoken report.
func (h *Handler) Audio(w http.ResponseWriter, r *http.Request) {
	img, err := h.readImage(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	audio, err := h.sys.Narrate(r.Context(), img.Data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBinary(w, audio.ContentType, audio.Data)
}

// Detections assesses caller-supplied vision output.
func (h *Handler) Detections(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[DetectionsCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Assess(cmd))
}

// Batch assesses every image of a multipart upload.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, h.maxBatchSize); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoImage)
		return
	}
	if len(files) > h.maxBatchSize {
		err := fmt.Errorf("%w: %d exceeds %d", ErrTooManyImages, len(files), h.maxBatchSize)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	images := make([]Image, 0, len(files))
	for _, fh := range files {
		img, err := h.openImage(fh)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("%s: %w", fh.Filename, err))
			return
		}
		images = append(images, img)
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.AnalyzeBatch(r.Context(), images))
}

// Speech voices the text of a JSON body.
func (h *Handler) Speech(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[SpeechCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	audio, err := h.sys.Speak(r.Context(), cmd.Text)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBinary(w, audio.ContentType, audio.Data)
}

func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) (Image, error) {
	if err := h.parseForm(w, r, 1); err != nil {
		return Image{}, err
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return Image{}, ErrNoImage
	}
	return h.openImage(files[0])
}

// parseForm caps the request body at parts images of maxUploadSize plus
// multipartOverhead each. Individual images are checked in openImage.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, parts int) error {
	n := int64(parts)
	r.Body = http.MaxBytesReader(w, r.Body, n*(h.maxUploadSize+multipartOverhead))

	if err := r.ParseMultipartForm(n * h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrFileTooLarge
		}
		return fmt.Errorf("%w: %w", ErrNoImage, err)
	}
	return nil
}

func (h *Handler) openImage(fh *multipart.FileHeader) (Image, error) {
	if fh.Size > h.maxUploadSize {
		return Image{}, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return Image{}, ErrInvalidFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Image{}, ErrInvalidFile
	}
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}

	contentType := detectContentType(fh.Header.Get("Content-Type"), data)
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: %s", ErrInvalidFile, contentType)
	}

	return Image{Filename: fh.Filename, Data: data}, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
