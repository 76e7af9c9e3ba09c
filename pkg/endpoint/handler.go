// Package endpoint serves the lead submission API on gin.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/submission"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// Store persists accepted submissions.
type Store interface {
	SaveSurvey(ctx context.Context, responses []wizard.Response) (string, error)
	SaveInquiry(ctx context.Context, fields map[string]string) (string, error)
}

// FormSource resolves the steps of the first published form of a type.
type FormSource func(ctx context.Context, formType string) ([]wizard.Step, error)

// SurveyResponse is one response record in a survey payload.
type SurveyResponse struct {
	FieldName    string `json:"fieldName" validate:"required"`
	FieldType    string `json:"fieldType"`
	Value        string `json:"value"`
	SectionIndex int    `json:"sectionIndex" validate:"gte=0"`
}

// SurveyRequest is the POST /survey body.
type SurveyRequest struct {
	Responses []SurveyResponse `json:"responses" validate:"required,min=1,dive"`
}

// InquiryRequest holds the contact fields an inquiry must carry.
type InquiryRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// DefaultMessages are the user-facing validation messages.
var DefaultMessages = map[string]string{
	"responses.required": "At least one response is required",
	"responses.min":      "At least one response is required",
	"fieldName.required": "Each response needs a field name",
	"sectionIndex.gte":   "Section index must not be negative",
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"email.required":     "Email is required",
	"email.email":        "Please enter a valid email address",
	"phone.required":     "Phone number is required",
	"country.required":   "Country is required",
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithForms enables GET /forms/:type.
func WithForms(forms FormSource) Option {
	return func(h *Handler) {
		h.forms = forms
	}
}

// WithMessages overrides individual validation messages.
func WithMessages(messages map[string]string) Option {
	return func(h *Handler) {
		for k, v := range messages {
			h.messages[k] = v
		}
	}
}

// Handler handles the submission endpoints.
type Handler struct {
	store    Store
	forms    FormSource
	messages map[string]string
	logger   *zap.Logger
}

// NewHandler creates a submission handler backed by store.
func NewHandler(store Store, opts ...Option) *Handler {
	h := &Handler{
		store:    store,
		messages: make(map[string]string, len(DefaultMessages)),
		logger:   zap.NewNop(),
	}
	for k, v := range DefaultMessages {
		h.messages[k] = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// RegisterRoutes registers the submission routes on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST(strings.TrimPrefix(submission.SurveyPath, "/api"), h.createSurvey)
	router.POST(strings.TrimPrefix(submission.InquiryPath, "/api"), h.createInquiry)
	if h.forms != nil {
		router.GET("/forms/:type", h.getForm)
	}
}

// createSurvey handles POST /survey
func (h *Handler) createSurvey(c *gin.Context) {
	var req SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate(req, h.messages); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	responses := make([]wizard.Response, 0, len(req.Responses))
	for _, r := range req.Responses {
		responses = append(responses, wizard.Response{
			FieldName:    strings.TrimSpace(r.FieldName),
			FieldType:    r.FieldType,
			Value:        r.Value,
			SectionIndex: r.SectionIndex,
		})
	}

	id, err := h.store.SaveSurvey(c.Request.Context(), responses)
	if err != nil {
		h.logger.Error("Failed to save survey", zap.Error(err), zap.Int("responses", len(responses)))
		h.fail(c, http.StatusInternalServerError, "Failed to save survey")
		return
	}

	h.logger.Info("Survey stored", zap.String("response_id", id), zap.Int("responses", len(responses)))
	c.JSON(http.StatusOK, submission.Reply{Success: true, ResponseID: id})
}

// createInquiry handles POST /inquiry
func (h *Handler) createInquiry(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		if text, ok := scalar(value); ok {
			fields[name] = text
		}
	}

	req := InquiryRequest{
		FirstName: fields[wizard.FieldFirstName],
		LastName:  fields[wizard.FieldLastName],
		Email:     fields[wizard.FieldEmail],
		Phone:     fields[wizard.FieldPhone],
		Country:   fields[wizard.FieldCountry],
	}
	if err := validate(req, h.messages); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.SaveInquiry(c.Request.Context(), fields)
	if err != nil {
		h.logger.Error("Failed to save inquiry", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "Failed to save inquiry")
		return
	}

	h.logger.Info("Inquiry stored", zap.String("response_id", id))
	c.JSON(http.StatusOK, submission.Reply{Success: true, ResponseID: id})
}

// getForm handles GET /forms/:type
func (h *Handler) getForm(c *gin.Context) {
	formType := c.Param("type")
	steps, err := h.forms(c.Request.Context(), formType)
	switch {
	case errors.Is(err, content.ErrNoForms):
		h.fail(c, http.StatusNotFound, fmt.Sprintf("no published %s form", formType))
		return
	case err != nil:
		h.logger.Error("Failed to load form", zap.Error(err), zap.String("form_type", formType))
		h.fail(c, http.StatusInternalServerError, "Failed to load form")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "steps": steps})
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, submission.Reply{Success: false, Error: message})
}

// scalar renders JSON scalars as text; nested values are dropped.
func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
