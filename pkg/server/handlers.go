package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fractals/pkg/buildinfo"
	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
	"github.com/matzehuels/fractals/pkg/history"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// Response headers set by /render.
const (
	CacheHeader    = "X-Cache"
	RecordIDHeader = "X-Render-ID"
)

// maxHistoryLimit caps /history?limit=.
const maxHistoryLimit = 500

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRenderQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Artifact)))
	if result.CacheInfo.ArtifactHit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
	if result.RecordID != "" {
		w.Header().Set(RecordIDHeader, result.RecordID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// execute runs the pipeline with the server's defaults and maps context
// errors to coded errors.
func (s *Server) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	opts.Workers = s.workers
	opts.Logger = s.logger
	result, err := s.runner.Execute(ctx, opts)
	switch {
	case err == nil:
		return result, nil
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
	case stderrors.Is(err, context.Canceled):
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "render cancelled")
	case errors.GetCode(err) == "":
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render failed")
	default:
		return nil, err
	}
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "render history is disabled"))
		return
	}

	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "list history"))
		return
	}
	if records == nil {
		records = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "render history is disabled"))
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.history.Get(r.Context(), id)
	if stderrors.Is(err, history.ErrNotFound) {
		writeError(w, errNotFound("no render with id %q", id))
		return
	}
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "get history record"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// renderRequest is a render described by query parameters or a websocket
// message. Zero values select defaults.
type renderRequest struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Kind    kindParam `json:"kind"`
	Format  string    `json:"format"`
	Refresh bool      `json:"refresh"`
}

// kindParam is a fractal kind given by name or numeric code. In JSON both
// "julia" and 0 are accepted.
type kindParam string

func (k *kindParam) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = kindParam(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return stderrors.New("kind must be a name or a numeric code")
	}
	*k = kindParam(n.String())
	return nil
}

func (req renderRequest) options() (pipeline.Options, error) {
	kind := pipeline.DefaultKind
	if req.Kind != "" {
		k, err := fractal.ParseKind(string(req.Kind))
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidKind, err, "invalid kind %q", req.Kind)
		}
		kind = k
	}

	opts := pipeline.Options{
		Kind:    kind,
		Width:   req.Width,
		Height:  req.Height,
		Format:  req.Format,
		Refresh: req.Refresh,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func parseRenderQuery(q url.Values) (pipeline.Options, error) {
	var req renderRequest
	var err error
	if req.Width, err = intParam(q, "width"); err != nil {
		return pipeline.Options{}, err
	}
	if req.Height, err = intParam(q, "height"); err != nil {
		return pipeline.Options{}, err
	}
	req.Kind = kindParam(q.Get("kind"))
	req.Format = q.Get("format")
	if v := q.Get("refresh"); v != "" {
		if req.Refresh, err = strconv.ParseBool(v); err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid refresh %q", v)
		}
	}
	return req.options()
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidSize, "invalid %s %q", name, v)
	}
	return n, nil
}
