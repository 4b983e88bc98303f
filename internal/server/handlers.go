package server

import (
	"mime"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	sankeyio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

var startTime = time.Now()

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   buildinfo.Version,
		Commit:    buildinfo.Commit,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

// handleRender renders one artifact. Only the first of a comma-separated
// format list is honored since the response carries a single body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	opts.Formats = opts.Formats[:1]

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Graph-Hash", result.GraphHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Warn("write response", "err", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, hit, err := s.runner.Layout(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, doc)
}

// readGraph decodes the body according to its Content-Type. JSON is assumed
// when the header is missing.
func readGraph(r *http.Request) (flow.Graph, error) {
	format := sankeyio.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
		}
		switch mt {
		case "application/json":
			format = sankeyio.FormatJSON
		case "text/csv":
			format = sankeyio.FormatCSV
		case "text/tab-separated-values":
			format = sankeyio.FormatTSV
		case "application/toml":
			format = sankeyio.FormatTOML
		default:
			return flow.Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
		}
	}
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()
	return sankeyio.Read(body, format)
}

// optionsFromQuery maps query parameters onto pipeline options. Parameter
// names match the JSON option keys.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		VizType:    q.Get("type"),
		BandColor:  q.Get("band_color"),
		NodeColor:  q.Get("node_color"),
		TextColor:  q.Get("text_color"),
		Background: q.Get("background"),
		Locale:     q.Get("locale"),
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"node_width", &opts.NodeWidth},
		{"label_gap", &opts.LabelGap},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", p.name)
			}
			*p.dst = n
		}
	}
	if v := q.Get("padding"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "padding")
		}
		opts.Padding = &n
	}
	if v := q.Get("font_size"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "font_size")
		}
		opts.FontSize = size
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"no_labels", &opts.NoLabels},
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", p.name)
			}
			*p.dst = b
		}
	}
	return opts, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
