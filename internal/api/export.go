package api

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"homestay/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// handleHostBookingsExport builds an Excel workbook with the host's
// bookings in the requested window and streams it back as a download.
// The default window runs from one month back to two months ahead.
func (s *Server) handleHostBookingsExport(c *gin.Context) {
	now := time.Now()
	start := now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0)
	end := now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0)

	if from := c.Query("from"); from != "" {
		t, ok := parseDate(c, from, "from")
		if !ok {
			return
		}
		start = t
	}
	if to := c.Query("to"); to != "" {
		t, ok := parseDate(c, to, "to")
		if !ok {
			return
		}
		end = t
	}

	bookings, err := s.bookings.ListHostBookingsInRange(c.Request.Context(), currentUserID(c), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filePath, err := s.writeBookingsWorkbook(bookings, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build bookings export")
		respondError(c, 500, "internal server error")
		return
	}

	c.FileAttachment(filePath, filepath.Base(filePath))
}

func (s *Server) writeBookingsWorkbook(bookings []*models.BookingDetails, start, end time.Time) (string, error) {
	if err := os.MkdirAll(s.cfg.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings %s - %s",
		start.Format(dateLayout), end.Format(dateLayout)))
	_ = f.MergeCell(sheetName, "A1", "I1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Reference", "Listing", "Guest", "Email", "Check-in", "Check-out", "Guests", "Total", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.Reference,
			b.ListingTitle,
			b.ContactName,
			b.ContactEmail,
			b.CheckIn.Format(dateLayout),
			b.CheckOut.Format(dateLayout),
			b.Guests,
			b.TotalPrice,
			b.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "I", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format(dateLayout), end.Format(dateLayout))
	filePath := filepath.Join(s.cfg.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("Excel export created")
	return filePath, nil
}
