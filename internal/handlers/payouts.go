package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JunoAX/beework-go/internal/export"
	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/payroll"
	"github.com/gin-gonic/gin"
)

func weeksBack(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("weeks_back", "0")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: weeks_back must be a non-negative integer", ErrValidation)
	}
	return n, nil
}

func loadPayouts(c *gin.Context, svc *payroll.Service) (*models.PayoutsResponse, bool) {
	n, err := weeksBack(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	userID, _ := middleware.GetAuthUserID(c)

	resp, err := svc.Payouts(c.Request.Context(), userID, n)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return resp, true
}

// ListPayouts returns the payout rows and total for a pay period
func ListPayouts(svc *payroll.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, ok := loadPayouts(c, svc)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ExportPayouts downloads a pay period as an XLSX workbook
func ExportPayouts(svc *payroll.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, ok := loadPayouts(c, svc)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := export.WritePayouts(&buf, resp); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(resp.Period)))
		c.Data(http.StatusOK, export.ContentType, buf.Bytes())
	}
}
