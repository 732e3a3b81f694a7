package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/archive"
	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/db"
	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

// missingInputMessage is shown until all three datasets are supplied.
const missingInputMessage = "Cargar los tres archivos para iniciar el procesamiento."

var uploadFields = []string{"main_file", "secondary_file", "dh_file"}

// handleV1CreateRun renders every section from an uploaded dataset triple
// POST /api/v1/sections (multipart)
func (s *Server) handleV1CreateRun(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes())

	if err := c.Request.ParseMultipartForm(s.engine.MaxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(c, http.StatusRequestEntityTooLarge, "upload exceeds limit")
			return
		}
		s.respondError(c, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	sources, closeAll, err := openUploads(c)
	if err != nil {
		if errors.Is(err, dataset.ErrMissingInput) {
			s.respondError(c, http.StatusBadRequest, missingInputMessage)
			return
		}
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	defer closeAll()

	params, err := parseParams(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bundle, err := dataset.Load(sources)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.runner.Run(ctx, params, bundle)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, section.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		s.logger.Error("sweep failed", zap.Error(err))
		s.respondError(c, status, err.Error())
		return
	}
	s.runs.add(res)
	s.recordRun(c.Request.Context(), res)

	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/runs/"+res.ID)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": runView(res)})
}

// handleV1GetRun returns metadata for a completed run
// GET /api/v1/runs/:id
func (s *Server) handleV1GetRun(c *gin.Context) {
	res, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": runView(res),
		"meta": gin.H{
			"count": len(res.Images),
		},
	})
}

// handleV1SectionImage serves one section image, 1-based
// GET /api/v1/runs/:id/sections/:index
func (s *Server) handleV1SectionImage(c *gin.Context) {
	res, ok := s.lookupRun(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section index"})
		return
	}
	img, err := res.Image(index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "image/jpeg")
	c.File(img.Path)
}

// handleV1Archive downloads every section image as one zip
// GET /api/v1/runs/:id/archive
func (s *Server) handleV1Archive(c *gin.Context) {
	res, ok := s.lookupRun(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := archive.Write(&buf, res.Paths()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	c.Data(http.StatusOK, archive.ContentType, buf.Bytes())
}

func (s *Server) lookupRun(c *gin.Context) (*pipeline.Result, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run id is required"})
		return nil, false
	}
	res, err := s.runs.get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return res, true
}

func (s *Server) recordRun(ctx context.Context, res *pipeline.Result) {
	if s.history == nil {
		return
	}
	rec := db.RunRecord{
		ID:         res.ID,
		CreatedAt:  res.CreatedAt,
		OriginX:    res.Params.OriginX,
		OriginY:    res.Params.OriginY,
		Azimuth:    res.Params.Azimuth,
		Spacing:    res.Params.Spacing,
		Sections:   len(res.Images),
		ClipWidth:  res.Params.ClipWidth,
		Samples:    res.Totals.Samples,
		Secondary:  res.Totals.Secondary,
		DrillHoles: res.Totals.DrillHoles,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if err := s.history.RecordRun(ctx, rec); err != nil {
		s.logger.Warn("run log write failed", zap.String("run_id", res.ID), zap.Error(err))
	}
}

// respondError answers JSON clients with {"error": msg} and browsers with
// the upload page.
func (s *Server) respondError(c *gin.Context, status int, msg string) {
	if wantsHTML(c) {
		c.HTML(status, "index.html", indexPage(section.DefaultParams(), msg))
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

func openUploads(c *gin.Context) (dataset.Sources, func(), error) {
	files := make([]multipart.File, 0, len(uploadFields))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	readers := make([]dataset.Source, 0, len(uploadFields))
	for _, field := range uploadFields {
		fh, err := c.FormFile(field)
		if err != nil {
			closeAll()
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				return dataset.Sources{}, nil, fmt.Errorf("%w: %s", dataset.ErrMissingInput, field)
			}
			return dataset.Sources{}, nil, fmt.Errorf("read %s: %w", field, err)
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return dataset.Sources{}, nil, fmt.Errorf("open %s: %w", field, err)
		}
		files = append(files, f)
		readers = append(readers, dataset.Source{Name: fh.Filename, Reader: io.Reader(f)})
	}

	return dataset.Sources{Main: readers[0], Secondary: readers[1], DrillHoles: readers[2]}, closeAll, nil
}

// parseParams reads the sweep parameters; absent fields take the form
// defaults.
func parseParams(c *gin.Context) (section.Params, error) {
	p := section.DefaultParams()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"origin_x", &p.OriginX},
		{"origin_y", &p.OriginY},
		{"azimuth", &p.Azimuth},
		{"spacing", &p.Spacing},
		{"clip_width", &p.ClipWidth},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(c.PostForm(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("invalid %s", f.name)
		}
		*f.dst = v
	}

	if raw := strings.TrimSpace(c.PostForm("num_sections")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errors.New("invalid num_sections")
		}
		p.Count = n
	}
	return p, nil
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func runView(res *pipeline.Result) gin.H {
	images := make([]gin.H, 0, len(res.Images))
	for _, img := range res.Images {
		images = append(images, gin.H{
			"index": img.Index,
			"name":  img.Name,
			"url":   imageURL(res.ID, img.Index),
		})
	}
	return gin.H{
		"id":          res.ID,
		"created_at":  res.CreatedAt,
		"params":      res.Params,
		"totals":      res.Totals,
		"sections":    res.Sections,
		"images":      images,
		"archive_url": "/api/v1/runs/" + res.ID + "/archive",
	}
}

func imageURL(id string, index int) string {
	return fmt.Sprintf("/api/v1/runs/%s/sections/%d", id, index)
}
