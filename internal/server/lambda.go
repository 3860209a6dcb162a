package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

const (
	errorContentType = "application/json"
	badRequestBody   = `{"error":"Invalid request body"}`
	internalBody     = `{"error":"Internal server error"}`
)

// LambdaAdapter feeds API Gateway proxy events through an http.Handler and
// captures what it writes.
type LambdaAdapter struct {
	handler http.Handler
}

func NewLambdaAdapter(h http.Handler) *LambdaAdapter {
	return &LambdaAdapter{handler: h}
}

func (a *LambdaAdapter) HandleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			log.Warn().Err(err).Str("path", event.Path).Msg("Failed to decode request body")
			return errorResponse(http.StatusBadRequest, badRequestBody), nil
		}
		body = decoded
	}

	req, err := http.NewRequestWithContext(ctx, event.HTTPMethod, requestURL(event), bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("path", event.Path).Msg("Failed to create request")
		return errorResponse(http.StatusInternalServerError, internalBody), nil
	}

	for key, values := range event.MultiValueHeaders {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for key, value := range event.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	if id := event.RequestContext.RequestID; id != "" && req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", id)
	}
	req.RemoteAddr = event.RequestContext.Identity.SourceIP

	// Create response writer to capture output
	w := &responseWriter{
		headers: make(http.Header),
		body:    &bytes.Buffer{},
		code:    http.StatusOK,
	}

	a.handler.ServeHTTP(w, req)

	headers := make(map[string]string, len(w.headers))
	for k := range w.headers {
		headers[k] = w.headers.Get(k)
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        w.code,
		Headers:           headers,
		MultiValueHeaders: w.headers,
		Body:              w.body.String(),
	}, nil
}

// requestURL rebuilds path and query string. Multi-value parameters win over
// the single-value map when API Gateway sends both.
func requestURL(event events.APIGatewayProxyRequest) string {
	path := event.Path
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for k, values := range event.MultiValueQueryStringParameters {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	for k, v := range event.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	u := url.URL{Path: path, RawQuery: query.Encode()}
	return u.String()
}

func errorResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                errorContentType,
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}

// responseWriter implements http.ResponseWriter
type responseWriter struct {
	headers     http.Header
	body        *bytes.Buffer
	code        int
	wroteHeader bool
}

func (w *responseWriter) Header() http.Header {
	return w.headers
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.code = statusCode
}
