package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/callminder/callminder/internal/domain"
)

// ReminderHandler serves the reminder wire protocol for the local
// development service. Storage is injected; handlers never touch process
// globals.
type ReminderHandler struct {
	repo domain.ReminderRepository
	now  func() time.Time
}

func NewReminderHandler(repo domain.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{
		repo: repo,
		now:  time.Now,
	}
}

// Register mounts the reminder routes on the router.
func (h *ReminderHandler) Register(r gin.IRouter) {
	r.GET("/reminders", h.HandleList)
	r.POST("/reminders", h.HandleCreate)
	r.GET("/reminders/:id", h.HandleGet)
	r.PATCH("/reminders/:id", h.HandleUpdate)
	r.DELETE("/reminders/:id", h.HandleDelete)
}

type createReminderRequest struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Phone       string `json:"phone"`
	ScheduledAt string `json:"scheduled_at"`
	Timezone    string `json:"timezone"`
}

// patchReminderRequest mirrors the sparse PATCH contract: pointers so that
// an omitted field and an explicitly empty one stay distinguishable. Status
// and last_error are accepted because the service's own dispatcher writes
// them through the same surface.
type patchReminderRequest struct {
	Title       *string `json:"title"`
	Message     *string `json:"message"`
	Phone       *string `json:"phone"`
	ScheduledAt *string `json:"scheduled_at"`
	Timezone    *string `json:"timezone"`
	Status      *string `json:"status"`
	LastError   *string `json:"last_error"`
}

type reminderResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	Phone       string  `json:"phone"`
	ScheduledAt string  `json:"scheduled_at"`
	Timezone    string  `json:"timezone"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastError   *string `json:"last_error"`
}

func (h *ReminderHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	status := domain.StatusFilter(c.Query("status"))
	if !status.Valid() {
		respondDetail(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	filter := domain.ListFilter{
		Status: status,
		Query:  c.Query("q"),
	}.Normalize()

	reminders, err := h.repo.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list reminders",
			slog.String("error", err.Error()),
		)
		respondDetail(c, http.StatusInternalServerError, "failed to list reminders")
		return
	}

	out := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, toResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReminderHandler) HandleGet(c *gin.Context) {
	reminder, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(*reminder))
}

func (h *ReminderHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	scheduledAt, err := parseTimestamp(req.ScheduledAt)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid scheduled_at: "+req.ScheduledAt)
		return
	}

	now := h.now().UTC()
	in := domain.NewReminder{
		Title:       req.Title,
		Message:     req.Message,
		Phone:       req.Phone,
		ScheduledAt: scheduledAt,
		Timezone:    req.Timezone,
	}
	if err := in.Validate(now); err != nil {
		respondValidation(c, err)
		return
	}

	reminder := domain.Reminder{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Message:     in.Message,
		Phone:       in.Phone,
		ScheduledAt: in.ScheduledAt.UTC(),
		Timezone:    in.Timezone,
		Status:      domain.StatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(ctx, &reminder); err != nil {
		slog.ErrorContext(ctx, "failed to create reminder",
			slog.String("error", err.Error()),
		)
		respondDetail(c, http.StatusInternalServerError, "failed to create reminder")
		return
	}

	slog.InfoContext(ctx, "reminder created",
		slog.String("reminder_id", reminder.ID),
		slog.Time("scheduled_at", reminder.ScheduledAt),
	)

	c.JSON(http.StatusCreated, toResponse(reminder))
}

func (h *ReminderHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	reminder, ok := h.lookup(c)
	if !ok {
		return
	}

	var req patchReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := h.now().UTC()

	patch := domain.Patch{
		Title:    req.Title,
		Message:  req.Message,
		Phone:    req.Phone,
		Timezone: req.Timezone,
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := parseTimestamp(*req.ScheduledAt)
		if err != nil {
			respondDetail(c, http.StatusBadRequest, "invalid scheduled_at: "+*req.ScheduledAt)
			return
		}
		patch.ScheduledAt = &scheduledAt
	}
	if err := patch.Validate(now); err != nil {
		respondValidation(c, err)
		return
	}

	patch.Apply(reminder)

	// Re-scheduling a resolved reminder puts it back in flight.
	if patch.ScheduledAt != nil {
		reminder.Status = domain.StatusScheduled
		reminder.LastError = ""
	}

	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			respondDetail(c, http.StatusBadRequest, "invalid status: "+*req.Status)
			return
		}
		reminder.Status = status
	}
	if req.LastError != nil {
		reminder.LastError = *req.LastError
	}

	reminder.UpdatedAt = now

	if err := h.repo.Update(ctx, reminder); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondDetail(c, http.StatusNotFound, "Reminder not found")
			return
		}
		slog.ErrorContext(ctx, "failed to update reminder",
			slog.String("reminder_id", reminder.ID),
			slog.String("error", err.Error()),
		)
		respondDetail(c, http.StatusInternalServerError, "failed to update reminder")
		return
	}

	c.JSON(http.StatusOK, toResponse(*reminder))
}

func (h *ReminderHandler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondDetail(c, http.StatusNotFound, "Reminder not found")
			return
		}
		slog.ErrorContext(ctx, "failed to delete reminder",
			slog.String("reminder_id", id),
			slog.String("error", err.Error()),
		)
		respondDetail(c, http.StatusInternalServerError, "failed to delete reminder")
		return
	}

	slog.InfoContext(ctx, "reminder deleted",
		slog.String("reminder_id", id),
	)

	c.Status(http.StatusNoContent)
}

func (h *ReminderHandler) lookup(c *gin.Context) (*domain.Reminder, bool) {
	ctx := c.Request.Context()
	id := c.Param("id")

	reminder, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondDetail(c, http.StatusNotFound, "Reminder not found")
			return nil, false
		}
		slog.ErrorContext(ctx, "failed to load reminder",
			slog.String("reminder_id", id),
			slog.String("error", err.Error()),
		)
		respondDetail(c, http.StatusInternalServerError, "failed to load reminder")
		return nil, false
	}
	return reminder, true
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func respondValidation(c *gin.Context, err error) {
	respondDetail(c, http.StatusBadRequest, err.Error())
}

// parseTimestamp accepts RFC3339 with or without zone information; bare
// timestamps are taken as UTC.
func parseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", trimmed)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func toResponse(r domain.Reminder) reminderResponse {
	resp := reminderResponse{
		ID:          r.ID,
		Title:       r.Title,
		Message:     r.Message,
		Phone:       r.Phone,
		ScheduledAt: r.ScheduledAt.UTC().Format(time.RFC3339),
		Timezone:    r.Timezone,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.LastError != "" {
		lastError := r.LastError
		resp.LastError = &lastError
	}
	return resp
}
