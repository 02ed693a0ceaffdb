package handlers

import (
	"fmt"
	"log"
	"net/http"

	"bbscope/internal/models"
	"bbscope/internal/services"
	"bbscope/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type TargetHandler struct {
	svc      *services.ScopeService
	validate *web.Validator
}

func RegisterRoutes(e *echo.Echo, svc *services.ScopeService, v *web.Validator) {
	h := &TargetHandler{svc: svc, validate: v}
	e.Validator = v

	e.GET("/target", h.GetTarget)
	e.POST("/target", h.CreateTarget)
	e.PATCH("/target", h.UpdateTarget)
	e.DELETE("/target", h.DeleteTarget)
	e.GET("/target/:domain/subdomains", h.GetSubdomains)
	e.PATCH("/target/:domain/subdomains", h.AddSubdomains)
}

// GetTarget returns one target when ?domain= is set, otherwise all of them.
func (h *TargetHandler) GetTarget(c echo.Context) error {
	ctx := c.Request().Context()

	domain := models.NormalizeHost(c.QueryParam("domain"))
	if domain == "" {
		targets, err := h.svc.ListTargets(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, targets)
	}

	target, err := h.svc.GetTarget(ctx, domain)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) CreateTarget(c echo.Context) error {
	domain := models.NormalizeHost(c.QueryParam("domain"))
	if err := h.validate.Domain(domain); err != nil {
		return respondError(c, err)
	}

	var req models.TargetCreate
	if err := h.bindTarget(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.svc.CreateTarget(c.Request().Context(), domain, req)
	if err != nil {
		return respondError(c, err)
	}

	if !res.Created {
		log.Printf("Target %s already exists, create ignored", domain)
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *TargetHandler) UpdateTarget(c echo.Context) error {
	domain := models.NormalizeHost(c.QueryParam("domain"))
	if err := h.validate.Domain(domain); err != nil {
		return respondError(c, err)
	}

	var req models.TargetCreate
	if err := h.bindTarget(c, &req); err != nil {
		return respondError(c, err)
	}

	target, err := h.svc.UpdateTarget(c.Request().Context(), domain, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) DeleteTarget(c echo.Context) error {
	domain := models.NormalizeHost(c.QueryParam("domain"))
	if err := h.validate.Domain(domain); err != nil {
		return respondError(c, err)
	}

	if err := h.svc.DeleteTarget(c.Request().Context(), domain); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"detail": fmt.Sprintf("Target with domain '%s' is deleted!", domain),
	})
}

func (h *TargetHandler) GetSubdomains(c echo.Context) error {
	subs, err := h.svc.GetSubdomains(c.Request().Context(), models.NormalizeHost(c.Param("domain")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

// AddSubdomains takes a JSON array of subdomains. Nothing is written unless
// every entry validates.
func (h *TargetHandler) AddSubdomains(c echo.Context) error {
	domain := models.NormalizeHost(c.Param("domain"))
	if err := h.validate.Domain(domain); err != nil {
		return respondError(c, err)
	}

	var req []models.Subdomain
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return respondError(c, err)
	}
	for i := range req {
		req[i].Name = models.NormalizeHost(req[i].Name)
		if err := c.Validate(&req[i]); err != nil {
			return respondError(c, err)
		}
	}

	res, err := h.svc.AddSubdomains(c.Request().Context(), domain, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TargetHandler) bindTarget(c echo.Context, req *models.TargetCreate) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

func respondError(c echo.Context, err error) error {
	var valErr *web.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  valErr.Error(),
			"fields": valErr.Violations,
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, echo.Map{"error": fmt.Sprint(httpErr.Message)})
	}

	switch {
	case errors.Is(err, services.ErrTargetNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Target not found"})
	case errors.Is(err, services.ErrReferentialIntegrity):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
