package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
)

// settingValue is the JSON representation of a current setting value. Set
// is false for optional settings without a value.
type settingValue struct {
	Key   string        `json:"key"`
	Type  settings.Type `json:"type"`
	Value string        `json:"value"`
	Set   bool          `json:"set"`
}

type settingDefinition struct {
	settings.Definition
	Default string `json:"default,omitempty"`
}

type definitionsResponse struct {
	Groups      []settings.Group    `json:"groups"`
	Definitions []settingDefinition `json:"definitions"`
}

type settingUpdate struct {
	Value *string `json:"value" binding:"required"`
}

func newSettingValue(v settings.Value) settingValue {
	return settingValue{Key: v.Key, Type: v.Type, Value: v.String(), Set: v.Raw != nil}
}

func (s *Server) registerAdminRoutes(r gin.IRoutes) {
	r.GET("", s.listSettings)
	r.GET("/definitions", s.listDefinitions)
	r.GET("/:key", s.getSetting)
	r.PUT("/:key", s.changeSetting)
	r.DELETE("/:key", s.deleteSetting)
}

func (s *Server) listSettings(c *gin.Context) {
	values := s.settings.GetSettings()
	out := make([]settingValue, 0, len(values))
	for _, v := range values {
		out = append(out, newSettingValue(v))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listDefinitions(c *gin.Context) {
	defs := s.settings.Definitions()
	out := definitionsResponse{
		Groups:      s.settings.Groups(),
		Definitions: make([]settingDefinition, 0, len(defs)),
	}
	for _, def := range defs {
		out.Definitions = append(out.Definitions, settingDefinition{
			Definition: def,
			Default:    settings.FormatValue(def.Default),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getSetting(c *gin.Context) {
	v, err := s.settings.GetSetting(c.Param("key"))
	if err != nil {
		s.adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingValue(v))
}

func (s *Server) changeSetting(c *gin.Context) {
	key := c.Param("key")
	def, ok := s.settings.Definition(key)
	if !ok {
		s.adminError(c, settings.ErrUnknownSetting)
		return
	}

	var update settingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := settings.ParseValue(def, *update.Value)
	if err != nil {
		s.adminError(c, err)
		return
	}
	if err := s.settings.ChangeSetting(c.Request.Context(), v); err != nil {
		s.adminError(c, err)
		return
	}

	s.logger.WithContext(c.Request.Context()).Info("setting changed through admin API",
		observability.String("key", key),
	)
	current, err := s.settings.GetSetting(key)
	if err != nil {
		s.adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingValue(current))
}

func (s *Server) deleteSetting(c *gin.Context) {
	key := c.Param("key")
	if err := s.settings.DeleteSetting(c.Request.Context(), key); err != nil {
		s.adminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adminError(c *gin.Context, err error) {
	var cfgErr *settings.ConfigurationError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, settings.ErrUnknownSetting):
		status = http.StatusNotFound
	case errors.Is(err, settings.ErrInvalidValue), errors.Is(err, settings.ErrTypeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, settings.ErrMissingValue), errors.As(err, &cfgErr):
		status = http.StatusConflict
	case errors.Is(err, settings.ErrNotStarted):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithContext(c.Request.Context()).Error("settings request failed",
			observability.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
