package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/section-viewer/services/api/archive"
	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

const pageTitle = "Visualizador de Secciones Geológicas"

type pageData struct {
	Title       string
	Params      section.Params
	MaxSections int
	Message     string
	Run         *runPage
}

type runPage struct {
	ID          string
	Count       int
	Current     int
	CurrentURL  string
	ImageBase   string
	ArchiveURL  string
	ArchiveName string
	Totals      pipeline.Counts
}

func indexPage(params section.Params, msg string) pageData {
	return pageData{
		Title:       pageTitle,
		Params:      params,
		MaxSections: section.MaxSections,
		Message:     msg,
	}
}

// handleIndexPage renders the upload form with default parameters.
func (s *Server) handleIndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage(section.DefaultParams(), missingInputMessage))
}

// handleRunPage renders the viewer for a completed run, starting at
// ?section=n when it is in range.
func (s *Server) handleRunPage(c *gin.Context) {
	res, err := s.runs.get(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "index.html", indexPage(section.DefaultParams(), "La ejecución no existe o expiró."))
		return
	}

	current := 1
	if n, err := strconv.Atoi(c.Query("section")); err == nil && n >= 1 && n <= len(res.Images) {
		current = n
	}

	data := indexPage(res.Params, "")
	data.Run = &runPage{
		ID:          res.ID,
		Count:       len(res.Images),
		Current:     current,
		CurrentURL:  imageURL(res.ID, current),
		ImageBase:   "/api/v1/runs/" + res.ID + "/sections/",
		ArchiveURL:  "/api/v1/runs/" + res.ID + "/archive",
		ArchiveName: archive.FileName,
		Totals:      res.Totals,
	}
	c.HTML(http.StatusOK, "index.html", data)
}
