package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/sos"
)

const headerAcceptLanguage = "Accept-Language"

// handleGet serves the KVP binding.
func (s *Server) handleGet(c *gin.Context) {
	req, err := sos.ParseKVP(c.Request.URL.Query())
	s.serve(c, req, err)
}

// handlePost serves the JSON binding.
func (s *Server) handlePost(c *gin.Context) {
	if ct := c.ContentType(); ct != config.ContentTypeJSON {
		s.writeException(c, ows.NewException(ows.CodeInvalidRequest, "Content-Type",
			"the content type '%s' is not supported, use '%s'", ct, config.ContentTypeJSON))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		exc := ows.NewException(ows.CodeInvalidRequest, "", "failed to read the request body")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			exc = ows.NewException(ows.CodeInvalidRequest, "",
				"the request body exceeds %d bytes", tooLarge.Limit)
		}
		exc.Cause = err
		s.writeException(c, exc)
		return
	}

	req, err := sos.ParseJSON(body)
	s.serve(c, req, err)
}

func (s *Server) serve(c *gin.Context, req sos.Request, err error) {
	if err != nil {
		s.writeException(c, err)
		return
	}

	ctx := observability.ContextWithOperation(c.Request.Context(), req.OperationName())
	c.Request = c.Request.WithContext(ctx)

	if gc, ok := req.(*sos.GetCapabilitiesRequest); ok && len(gc.AcceptLanguages) == 0 {
		gc.AcceptLanguages = sos.AcceptLanguages(c.GetHeader(headerAcceptLanguage))
	}

	resp, err := s.service.Handle(ctx, req)
	if err != nil {
		s.writeException(c, err)
		return
	}

	obj, err := s.encoder.EncodeResponse(resp)
	if err != nil {
		s.writeException(c, err)
		return
	}
	data, err := s.encoder.Marshal(obj)
	if err != nil {
		s.writeException(c, err)
		return
	}

	c.Data(http.StatusOK, config.ContentTypeJSON, data)
}

// handlePanic answers a recovered panic with a NoApplicableCode report.
func (s *Server) handlePanic(c *gin.Context, _ any) {
	s.writeException(c, ows.NewException(ows.CodeNoApplicableCode, "", "internal server error"))
	c.Abort()
}
