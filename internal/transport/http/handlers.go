package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/pricing/usecase"
)

// writeError maps domain errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	if de := domain.AsDomainError(err); de != nil {
		status := http.StatusInternalServerError
		switch de.Code {
		case domain.ErrCodeValidation, domain.ErrCodeImportFormat:
			status = http.StatusBadRequest
		case domain.ErrCodeNotFound:
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": de})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"code":    domain.ErrCodeInternal,
		"message": err.Error(),
	}})
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	date, err := domain.ParseDate(value)
	if err != nil {
		writeError(c, domain.NewValidationError(name+" must be a valid date", err.Error()))
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) listRoomTypes(c *gin.Context) {
	roomTypes, err := s.service.ListRoomTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_types": roomTypes})
}

func (s *Server) upsertRoomType(c *gin.Context) {
	var roomType domain.RoomType
	if err := c.ShouldBindJSON(&roomType); err != nil {
		writeError(c, domain.NewValidationError("invalid room type payload", err.Error()))
		return
	}
	saved, err := s.service.UpsertRoomType(c.Request.Context(), roomType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// seasonRequest carries a season with wire-format month-days
type seasonRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	StartDay   string  `json:"start_day"` // "MM-DD"
	EndDay     string  `json:"end_day"`
	Multiplier float64 `json:"multiplier"`
	Active     bool    `json:"active"`
}

func (s *Server) listSeasons(c *gin.Context) {
	seasons, err := s.service.ListSeasons(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seasons": seasons})
}

func (s *Server) upsertSeason(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("invalid season payload", err.Error()))
		return
	}

	startDay, err := domain.ParseMonthDay(req.StartDay)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid start day", err.Error()))
		return
	}
	endDay, err := domain.ParseMonthDay(req.EndDay)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid end day", err.Error()))
		return
	}

	saved, err := s.service.UpsertSeason(c.Request.Context(), domain.Season{
		ID:         req.ID,
		Name:       req.Name,
		StartDay:   startDay,
		EndDay:     endDay,
		Multiplier: req.Multiplier,
		Active:     req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) deleteSeason(c *gin.Context) {
	if err := s.service.DeleteSeason(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// eventRequest carries a special event with wire-format dates
type eventRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	StartDate   string   `json:"start_date"` // "YYYY-MM-DD"
	EndDate     string   `json:"end_date"`
	Multiplier  float64  `json:"multiplier"`
	Priority    int      `json:"priority"`
	RoomTypeIDs []string `json:"room_type_ids"`
	Active      bool     `json:"active"`
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.service.ListEvents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) upsertEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("invalid event payload", err.Error()))
		return
	}

	startDate, err := domain.ParseDate(req.StartDate)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid start date", err.Error()))
		return
	}
	endDate, err := domain.ParseDate(req.EndDate)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid end date", err.Error()))
		return
	}

	saved, err := s.service.UpsertEvent(c.Request.Context(), domain.SpecialEvent{
		ID:          req.ID,
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		Multiplier:  req.Multiplier,
		Priority:    req.Priority,
		RoomTypeIDs: req.RoomTypeIDs,
		Active:      req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) deleteEvent(c *gin.Context) {
	if err := s.service.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ruleRequest carries a pricing rule edit with a wire-format date
type ruleRequest struct {
	RoomTypeID string `json:"room_type_id"`
	Date       string `json:"date"`
	Price      int64  `json:"price"`
	Reason     string `json:"reason"`
}

func (s *Server) listRules(c *gin.Context) {
	rules, err := s.service.ListRules(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (s *Server) createRule(c *gin.Context) {
	input, ok := s.bindRuleRequest(c)
	if !ok {
		return
	}
	rule, err := s.service.CreateRule(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (s *Server) updateRule(c *gin.Context) {
	input, ok := s.bindRuleRequest(c)
	if !ok {
		return
	}
	rule, err := s.service.UpdateRule(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) deleteRule(c *gin.Context) {
	if err := s.service.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) bindRuleRequest(c *gin.Context) (usecase.RuleInput, bool) {
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("invalid rule payload", err.Error()))
		return usecase.RuleInput{}, false
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid date", err.Error()))
		return usecase.RuleInput{}, false
	}
	return usecase.RuleInput{
		RoomTypeID: req.RoomTypeID,
		Date:       date,
		Price:      req.Price,
		Reason:     req.Reason,
	}, true
}

func (s *Server) calendar(c *gin.Context) {
	roomTypeID := c.Query("room_type_id")
	if roomTypeID == "" {
		writeError(c, domain.NewValidationError("room_type_id is required", ""))
		return
	}
	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end")
	if !ok {
		return
	}

	days, err := s.service.Calendar(c.Request.Context(), roomTypeID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_type_id": roomTypeID, "days": days})
}

// gridRequest is the calendar grid query payload
type gridRequest struct {
	RoomTypeIDs []string `json:"room_type_ids"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

func (s *Server) calendarGrid(c *gin.Context) {
	var req gridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("invalid grid payload", err.Error()))
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid start date", err.Error()))
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		writeError(c, domain.NewValidationError("invalid end date", err.Error()))
		return
	}

	grid, err := s.service.CalendarGrid(c.Request.Context(), req.RoomTypeIDs, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": grid})
}

// bulkRequest is the bulk adjustment payload with wire-format dates
type bulkRequest struct {
	RoomTypes      []string `json:"room_type_ids"`
	AdjustmentType string   `json:"adjustment_type"`
	Operation      string   `json:"operation"`
	Value          float64  `json:"value"`
	DateFilter     string   `json:"date_filter"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Dates          []string `json:"dates"`
	Reason         string   `json:"reason"`
}

func (s *Server) bindBulkSpec(c *gin.Context) (domain.BulkAdjustmentSpec, bool) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("invalid bulk adjustment payload", err.Error()))
		return domain.BulkAdjustmentSpec{}, false
	}

	spec := domain.BulkAdjustmentSpec{
		RoomTypeIDs:    req.RoomTypes,
		AdjustmentType: domain.AdjustmentType(req.AdjustmentType),
		Operation:      domain.Operation(req.Operation),
		Value:          req.Value,
		Filter:         domain.DateFilter{Kind: domain.DateFilterKind(req.DateFilter)},
		Reason:         req.Reason,
	}

	if req.StartDate != "" {
		start, err := domain.ParseDate(req.StartDate)
		if err != nil {
			writeError(c, domain.NewValidationError("invalid start date", err.Error()))
			return domain.BulkAdjustmentSpec{}, false
		}
		spec.Filter.Start = start
	}
	if req.EndDate != "" {
		end, err := domain.ParseDate(req.EndDate)
		if err != nil {
			writeError(c, domain.NewValidationError("invalid end date", err.Error()))
			return domain.BulkAdjustmentSpec{}, false
		}
		spec.Filter.End = end
	}
	for _, raw := range req.Dates {
		date, err := domain.ParseDate(raw)
		if err != nil {
			writeError(c, domain.NewValidationError("invalid date in list", err.Error()))
			return domain.BulkAdjustmentSpec{}, false
		}
		spec.Filter.Dates = append(spec.Filter.Dates, date)
	}
	return spec, true
}

func (s *Server) bulkPreview(c *gin.Context) {
	spec, ok := s.bindBulkSpec(c)
	if !ok {
		return
	}
	rows, err := s.service.PreviewBulk(c.Request.Context(), spec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": rows})
}

func (s *Server) bulkCommit(c *gin.Context) {
	spec, ok := s.bindBulkSpec(c)
	if !ok {
		return
	}
	rules, err := s.service.CommitBulk(c.Request.Context(), spec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"committed": len(rules), "rules": rules})
}

func (s *Server) importRules(c *gin.Context) {
	summary, err := s.service.ImportRules(c.Request.Context(), c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) exportRules(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="pricing-rules.csv"`)
	if err := s.service.ExportRules(c.Request.Context(), c.Writer); err != nil {
		writeError(c, err)
	}
}

func (s *Server) exportSnapshot(c *gin.Context) {
	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end")
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="pricing-snapshot.csv"`)
	if err := s.service.ExportSnapshot(c.Request.Context(), c.Writer, start, end); err != nil {
		writeError(c, err)
	}
}
