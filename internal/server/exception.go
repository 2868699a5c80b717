package server

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/sos"
)

const namespaceOWS = "http://www.opengis.net/ows/1.1"

type xmlExceptionReport struct {
	XMLName    xml.Name       `xml:"ows:ExceptionReport"`
	Namespace  string         `xml:"xmlns:ows,attr"`
	Version    string         `xml:"version,attr"`
	Lang       string         `xml:"xml:lang,attr,omitempty"`
	Exceptions []xmlException `xml:"ows:Exception"`
}

type xmlException struct {
	Code    string   `xml:"exceptionCode,attr"`
	Locator string   `xml:"locator,attr,omitempty"`
	Text    []string `xml:"ows:ExceptionText"`
}

func newXMLExceptionReport(r *ows.ExceptionReport) *xmlExceptionReport {
	doc := &xmlExceptionReport{
		Namespace:  namespaceOWS,
		Version:    r.Version,
		Lang:       r.Lang,
		Exceptions: make([]xmlException, 0, len(r.Exceptions)),
	}
	for _, ex := range r.Exceptions {
		doc.Exceptions = append(doc.Exceptions, xmlException{
			Code:    string(ex.Code),
			Locator: ex.Locator,
			Text:    ex.Text,
		})
	}
	return doc
}

// writeException answers with an exception report for err in the content
// type negotiated from the Accept header.
func (s *Server) writeException(c *gin.Context, err error) {
	report := ows.ReportFromError(sos.Version200, err)
	status := report.HTTPStatus()
	operation := observability.OperationFromContext(c.Request.Context())

	for _, ex := range report.Exceptions {
		if s.metrics != nil {
			s.metrics.RecordException(operation, string(ex.Code))
		}
	}

	log := s.logger.WithContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", observability.Error(err))
	} else {
		log.Debug("request rejected", observability.Error(err))
	}
	_ = c.Error(err)

	contentType := s.negotiator.Negotiate(c.GetHeader("Accept"))
	data, encErr := s.encodeReport(contentType, report)
	if encErr != nil {
		log.Error("failed to encode exception report", observability.Error(encErr))
		if s.encodingMetrics != nil {
			s.encodingMetrics.RecordError(contentType, "exception")
		}
		c.String(http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.Data(status, contentType, data)
}

func (s *Server) encodeReport(contentType string, report *ows.ExceptionReport) ([]byte, error) {
	if contentType == config.ContentTypeXML || contentType == config.ContentTypeTextXML {
		return s.xml.Encode(newXMLExceptionReport(report))
	}
	obj, err := s.encoder.EncodeExceptionReport(report)
	if err != nil {
		return nil, err
	}
	return s.encoder.Marshal(obj)
}
