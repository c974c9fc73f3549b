package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"unitconv/internal/codec"
	"unitconv/internal/engine"
	"unitconv/internal/metrics"
	"unitconv/internal/models"
)

const (
	KindBadRequest = "bad-request"

	maxBatchSize = 10000
)

type Handler struct {
	logger        *zap.Logger
	metrics       *metrics.Recorder
	allowNegative bool
	workers       int
}

type HandlerOption func(*Handler)

func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

func WithMetrics(rec *metrics.Recorder) HandlerOption {
	return func(h *Handler) { h.metrics = rec }
}

// WithAllowNegative disables the non-negative check for linear domains.
func WithAllowNegative(allow bool) HandlerOption {
	return func(h *Handler) { h.allowNegative = allow }
}

// WithWorkers sets the batch worker count, 0 meaning runtime.NumCPU().
func WithWorkers(n int) HandlerOption {
	return func(h *Handler) { h.workers = n }
}

func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/domains", h.GetDomains)
	api.GET("/units/:domain", h.GetUnits)
	api.GET("/convert", h.Convert)
	api.POST("/convert/batch", h.ConvertBatch)
}

// --- HANDLERS ---

func (h *Handler) GetDomains(c echo.Context) error {
	domains := engine.Domains()
	out := make([]string, len(domains))
	for i, d := range domains {
		out[i] = string(d)
	}
	return respond(c, http.StatusOK, out)
}

// units of one domain, in menu order
func (h *Handler) GetUnits(c echo.Context) error {
	units, err := engine.ListUnits(engine.Domain(c.Param("domain")))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]models.UnitOption, len(units))
	for i, code := range units {
		out[i] = models.UnitOption{
			Code:  code,
			Name:  engine.DisplayName(code),
			Label: engine.FormatOption(code),
		}
	}
	return respond(c, http.StatusOK, out)
}

func (h *Handler) Convert(c echo.Context) error {
	var req models.ConversionRequest
	err := echo.QueryParamsBinder(c).
		MustFloat64("value", &req.Value).
		MustString("from", &req.From).
		MustString("to", &req.To).
		MustString("domain", &req.Domain).
		BindError()
	if err != nil {
		return h.fail(c, err)
	}

	resp := h.convertOne(req)
	if resp.Error != "" {
		return respond(c, http.StatusBadRequest, models.ErrorResponse{Error: resp.Error, Kind: resp.Kind})
	}
	return respond(c, http.StatusOK, resp)
}

func (h *Handler) ConvertBatch(c echo.Context) error {
	// 1. Decode body (msgpack stream or JSON envelope)
	var reqs []models.ConversionRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), codec.ContentType) {
		decoded, err := codec.DecodeRequests(c.Request().Body)
		if err != nil {
			return h.fail(c, err)
		}
		reqs = decoded
	} else {
		var body models.BatchRequest
		if err := c.Bind(&body); err != nil {
			return h.fail(c, err)
		}
		reqs = body.Requests
	}
	if len(reqs) > maxBatchSize {
		return respond(c, http.StatusBadRequest, models.ErrorResponse{
			Error: "batch exceeds 10000 requests",
			Kind:  KindBadRequest,
		})
	}

	// 2. Validate, then convert what passed
	out := make([]models.ConversionResponse, len(reqs))
	pending := make([]engine.Request, 0, len(reqs))
	index := make([]int, 0, len(reqs))
	for i, r := range reqs {
		out[i] = models.ConversionResponse{Value: r.Value, From: r.From, To: r.To, Domain: r.Domain}
		if err := engine.ValidateInput(r.Value, engine.Domain(r.Domain), h.allowNegative); err != nil {
			if errors.Is(err, engine.ErrNonFiniteValue) {
				// NaN and ±Inf have no JSON form; the message keeps the value.
				out[i].Value = 0
			}
			setError(&out[i], err)
			continue
		}
		pending = append(pending, engine.Request{Value: r.Value, From: r.From, To: r.To, Domain: engine.Domain(r.Domain)})
		index = append(index, i)
	}

	results, err := engine.ConvertBatch(c.Request().Context(), pending, h.workers)
	if err != nil {
		// client went away; nothing left to answer
		return err
	}
	for j := range results {
		if results[j].Err == nil {
			results[j].Err = engine.CheckResult(results[j].Output, results[j].Request.To, results[j].Request.Domain)
		}
	}
	if h.metrics != nil {
		h.metrics.ObserveBatch(results)
	}

	// 3. Merge (a non-finite result fails only its own item)
	resp := models.BatchResponse{Results: out}
	for j, res := range results {
		i := index[j]
		if res.Err != nil {
			setError(&out[i], res.Err)
			continue
		}
		out[i].Result = res.Output
		out[i].Formatted = engine.FormatQuantity(res.Output, res.Request.To, res.Request.Domain)
	}
	for i := range out {
		if out[i].Error != "" {
			resp.Failed++
		}
	}
	h.logger.Debug("batch converted", zap.Int("size", len(out)), zap.Int("failed", resp.Failed))
	return respond(c, http.StatusOK, resp)
}

// --- HELPERS ---

func (h *Handler) convertOne(req models.ConversionRequest) models.ConversionResponse {
	resp := models.ConversionResponse{Value: req.Value, From: req.From, To: req.To, Domain: req.Domain}
	domain := engine.Domain(req.Domain)

	if err := engine.ValidateInput(req.Value, domain, h.allowNegative); err != nil {
		setError(&resp, err)
		return resp
	}
	result, err := engine.Convert(req.Value, req.From, req.To, domain)
	if err == nil {
		err = engine.CheckResult(result, req.To, domain)
	}
	if h.metrics != nil {
		h.metrics.Observe(domain, err)
	}
	if err != nil {
		h.logger.Debug("conversion rejected", zap.Error(err), zap.String("kind", engine.Kind(err)))
		setError(&resp, err)
		return resp
	}
	resp.Result = result
	resp.Formatted = engine.FormatQuantity(result, req.To, domain)
	return resp
}

func setError(resp *models.ConversionResponse, err error) {
	resp.Error = err.Error()
	resp.Kind = kindOf(err)
}

func kindOf(err error) string {
	if kind := engine.Kind(err); kind != "" {
		return kind
	}
	return KindBadRequest
}

func (h *Handler) fail(c echo.Context, err error) error {
	var he *echo.HTTPError
	msg := err.Error()
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	return respond(c, http.StatusBadRequest, models.ErrorResponse{Error: msg, Kind: kindOf(err)})
}

// respond encodes body as msgpack when the client asks for it, JSON otherwise.
func respond(c echo.Context, status int, body any) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), codec.ContentType) {
		data, err := codec.Marshal(body)
		if err != nil {
			return err
		}
		return c.Blob(status, codec.ContentType, data)
	}
	return c.JSON(status, body)
}
