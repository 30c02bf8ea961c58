package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/pocket/config"
	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/internal/protocol/http1"
	"github.com/indigo-web/pocket/internal/telemetry"
	"github.com/indigo-web/pocket/router"
	"github.com/indigo-web/pocket/transport"
	"github.com/indigo-web/utils/uf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Failure reasons reported when a connection is dropped without a response.
const (
	ReasonRead  = "read"
	ReasonParse = "parse"
	ReasonWrite = "write"
)

// Server handles exactly one request per connection.
type Server struct {
	cfg     *config.Config
	router  router.Router
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

func NewServer(
	cfg *config.Config, r router.Router, tel *telemetry.Telemetry, metrics *telemetry.Metrics,
) *Server {
	return &Server{
		cfg:     cfg,
		router:  r,
		logger:  tel.Logger,
		tracer:  tel.Tracer,
		metrics: metrics,
	}
}

// Serve reads a single request off the connection, dispatches it and writes the response
// back. The connection is always closed on return.
func (s *Server) Serve(conn net.Conn) {
	client := transport.NewClient(conn, s.cfg.NET.ReadTimeout)
	remote := client.Remote()
	ctx, span := s.tracer.Start(context.Background(), "pocket.conn",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("net.peer.addr", remote.String())),
	)
	defer span.End()

	s.metrics.Busy(ctx, 1)
	defer s.metrics.Busy(ctx, -1)

	logger := s.logger.With("conn", uniuri.NewLen(8), "remote", remote.String())
	defer func() {
		if err := client.Close(); err != nil {
			logger.Debug("close connection", "err", err)
		}
	}()

	data, err := http1.Read(client, s.cfg.NET.ReadBufferSize, s.cfg.NET.MaxRequestSize)
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Debug("connection closed before sending a request")
			return
		}

		s.reject(ctx, logger, client, err, ReasonRead)
		return
	}

	request, err := http1.Parse(data)
	if err != nil {
		s.reject(ctx, logger, client, err, ReasonParse)
		return
	}

	request.Remote = remote
	span.SetAttributes(
		attribute.String("http.method", request.Method.String()),
		attribute.String("http.target", request.Path),
	)

	if s.cfg.HTTP.DumpMessages {
		logger.Debug("request", "dump", uf.B2S(data))
	}

	response, err := s.router.OnRequest(request)
	if err != nil {
		logger.Error("handle request", "method", request.Method.String(), "path", request.Path, "err", err)
		span.RecordError(err)
		response = s.router.OnError(request, err)
	}

	s.respond(ctx, logger, client, request.Method, response)
}

// reject handles requests which couldn't be read or parsed. HTTP errors are answered if
// enabled by the config, any other error drops the connection silently.
func (s *Server) reject(
	ctx context.Context, logger *slog.Logger, client transport.Client, err error, reason string,
) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	var httpErr status.HTTPError
	if !errors.As(err, &httpErr) || !s.cfg.HTTP.RespondOnError {
		logger.Debug("dropping connection", "reason", reason, "err", err)
		span.SetStatus(codes.Error, reason)
		s.metrics.Failure(ctx, reason)
		return
	}

	logger.Debug("rejecting request", "code", int(httpErr.Code), "err", err)
	s.respond(ctx, logger, client, method.Unknown, s.router.OnError(nil, err))
}

func (s *Server) respond(
	ctx context.Context, logger *slog.Logger, client transport.Client, m method.Method, response *http.Response,
) {
	span := trace.SpanFromContext(ctx)

	if response == nil {
		response = internalError()
	}

	if s.cfg.HTTP.DumpMessages {
		logger.Debug("response", "dump", uf.B2S(http1.Serialize(response)))
	}

	if err := http1.Write(client, response); err != nil {
		logger.Warn("write response", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, ReasonWrite)
		s.metrics.Failure(ctx, ReasonWrite)
		return
	}

	span.SetAttributes(attribute.Int("http.status_code", int(response.Code)))
	if response.Code >= status.InternalServerError {
		span.SetStatus(codes.Error, string(response.Status))
	}

	s.metrics.Request(ctx, m.String(), int(response.Code))
}

func internalError() *http.Response {
	resp, err := http.Respond(status.InternalServerError).Build()
	if err != nil {
		panic("BUG: response with a code set must always build")
	}

	return resp
}
