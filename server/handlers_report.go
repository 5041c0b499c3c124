package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"store-monitor/model"

	"github.com/gin-gonic/gin"
)

// triggerReport starts a report run and returns its id immediately; the
// report computes in the background.
func (s *Server) triggerReport(c *gin.Context) {
	id := s.runner.Trigger()
	c.JSON(http.StatusOK, gin.H{"report_id": id})
}

// getReport returns the finished report as a CSV attachment, or the job
// status while it is still running.
func (s *Server) getReport(c *gin.Context) {
	id := c.Query("report_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report_id is required"})
		return
	}

	job, ok := s.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	switch job.Status {
	case model.ReportComplete:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=store_report_%s.csv", job.ID))
		c.Data(http.StatusOK, "text/csv", []byte(job.CSVData))
	case model.ReportError:
		c.JSON(http.StatusOK, gin.H{"status": string(job.Status), "error": job.Error})
	default:
		c.JSON(http.StatusOK, gin.H{"status": string(job.Status)})
	}
}

// metrics exposes every completed report's rows in Prometheus text
// exposition format.
func (s *Server) metrics(c *gin.Context) {
	var lines []string

	for _, job := range s.registry.Jobs() {
		if job.Status != model.ReportComplete {
			continue
		}

		r := csv.NewReader(strings.NewReader(job.CSVData))
		records, err := r.ReadAll()
		if err != nil || len(records) < 2 {
			continue
		}
		for _, rec := range records[1:] {
			storeID := rec[0]
			lines = append(lines,
				fmt.Sprintf(`store_uptime_hours{store_id=%q,period="last_hour"} %s`, storeID, rec[1]),
				fmt.Sprintf(`store_uptime_hours{store_id=%q,period="last_day"} %s`, storeID, rec[2]),
				fmt.Sprintf(`store_uptime_hours{store_id=%q,period="last_week"} %s`, storeID, rec[3]),
				fmt.Sprintf(`store_downtime_hours{store_id=%q,period="last_hour"} %s`, storeID, rec[4]),
				fmt.Sprintf(`store_downtime_hours{store_id=%q,period="last_day"} %s`, storeID, rec[5]),
				fmt.Sprintf(`store_downtime_hours{store_id=%q,period="last_week"} %s`, storeID, rec[6]),
			)
		}
	}

	c.String(http.StatusOK, strings.Join(lines, "\n")+"\n")
}
