// Package httpapi exposes the volume registry, recovery ledger and saga log
// over REST.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kompox/volsaga/internal/logging"
	"github.com/kompox/volsaga/usecase/operatelog"
	"github.com/kompox/volsaga/usecase/volume"
	"github.com/kompox/volsaga/usecase/volumerecord"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server holds the use cases behind the REST endpoints.
type Server struct {
	Volumes    *volume.UseCase
	Records    *volumerecord.UseCase
	OperateLog *operatelog.UseCase
	Logger     logging.Logger
	Metrics    *Metrics
}

// apiFunc handles one request. A returned error is written as an error
// envelope with the mapped status.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// Handler builds the routed and instrumented http.Handler.
func (s *Server) Handler() http.Handler {
	if s.Metrics == nil {
		s.Metrics = NewMetrics()
	}
	if s.Logger == nil {
		s.Logger = logging.FromContext(context.Background())
	}
	mux := http.NewServeMux()

	s.handle(mux, "GET /docker/volume/list", s.volumeList)
	s.handle(mux, "GET /docker/volume/{name}", s.volumeDetail)
	s.handle(mux, "POST /docker/volume", s.volumeCreate)
	s.handle(mux, "PUT /docker/volume", s.volumeUpdate)
	s.handle(mux, "DELETE /docker/volume/{ids}", s.volumeBatchDelete)

	s.handle(mux, "GET /docker/volumeRecord/list", s.recordList)
	s.handle(mux, "GET /docker/volumeRecord/detail/{id}", s.recordDetail)
	s.handle(mux, "POST /docker/volumeRecord", s.recordCreate)
	s.handle(mux, "PUT /docker/volumeRecord", s.recordUpdate)
	s.handle(mux, "DELETE /docker/volumeRecord/{ids}", s.recordBatchDelete)
	s.handle(mux, "POST /docker/volumeRecord/restore/{id}", s.recordRestore)

	s.handle(mux, "GET /saga/operateLog/list", s.operateLogList)
	s.handle(mux, "GET /saga/operateLog/detail/{id}", s.operateLogDetail)
	s.handle(mux, "POST /saga/operateLog", s.operateLogCreate)
	s.handle(mux, "PUT /saga/operateLog", s.operateLogUpdate)
	s.handle(mux, "DELETE /saga/operateLog/{ids}", s.operateLogBatchDelete)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", s.Metrics.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})

	return otelhttp.NewHandler(mux, "volsaga")
}

// handle registers fn under pattern with span logging and metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, fn apiFunc) {
	h := func(w http.ResponseWriter, r *http.Request) {
		startAt := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx := logging.WithLogger(r.Context(), s.Logger)
		kv := []any{"route", pattern}
		if op := operator(r); op != "" {
			kv = append(kv, "operator", op)
		}
		ctx, end := logging.Span(ctx, "HTTP", pattern, kv...)
		r = r.WithContext(ctx)

		err := fn(rec, r)
		if err != nil {
			status := StatusFor(err)
			msg := err.Error()
			if status == http.StatusInternalServerError {
				logging.FromContext(ctx).Error(ctx, "request failed", "err", err)
				msg = "internal error"
			}
			writeError(rec, status, msg)
		}

		s.Metrics.RequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.status)).Inc()
		s.Metrics.RequestDuration.WithLabelValues(pattern, r.Method).Observe(time.Since(startAt).Seconds())
		end(err, "status", rec.status)
	}
	mux.Handle(pattern, otelhttp.WithRouteTag(pattern, http.HandlerFunc(h)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
