package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// openCSVUpload validates and opens the multipart "file" field.
func openCSVUpload(c *gin.Context) (multipart.File, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, "", false
	}
	if !strings.HasSuffix(fileHeader.Filename, ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be a valid CSV"})
		return nil, "", false
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, "", false
	}
	return f, fileHeader.Filename, true
}

func (s *Server) uploadStoreStatus(c *gin.Context) {
	f, filename, ok := openCSVUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	s.runLoad(c, filename, "Store status data uploaded successfully", f, s.loader.LoadStoreStatus)
}

func (s *Server) uploadBusinessHours(c *gin.Context) {
	f, filename, ok := openCSVUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	s.runLoad(c, filename, "Business hours data uploaded successfully", f, s.loader.LoadBusinessHours)
}

func (s *Server) uploadTimezones(c *gin.Context) {
	f, filename, ok := openCSVUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	s.runLoad(c, filename, "Timezones data uploaded successfully", f, s.loader.LoadTimezones)
}

func (s *Server) runLoad(c *gin.Context, filename, message string, r io.Reader, load func(io.Reader) (int, error)) {
	records, err := load(r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"filename":       filename,
		"records_loaded": records,
	})
}
