package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apimgr/catalog/src/common/version"
	"github.com/apimgr/catalog/src/model"
	"github.com/apimgr/catalog/src/tracing"
)

const (
	// DefaultBaseURL is the public catalog the CLI talks to
	DefaultBaseURL = "https://fakestoreapi.com"

	// PlaceholderImage is attached to every product created from the CLI
	PlaceholderImage = "https://via.placeholder.com/300"

	productsEndpoint = "/products"

	// RequestIDHeader correlates a request with the CLI's log lines
	RequestIDHeader = "X-Request-ID"
)

// Client is the API client for the product catalog.
// Each method performs exactly one HTTP round trip; nothing is retried.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tracer     tracing.Tracer
	Logger     *slog.Logger
}

// NewClient creates a new API client. A timeout of 0 keeps the transport
// default.
func NewClient(baseURL string, timeout int) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		Tracer: tracing.Noop(),
		Logger: slog.New(slog.DiscardHandler),
	}
}

// createRequest is the body sent by CreateProduct
type createRequest struct {
	model.ProductInput
	Image  string       `json:"image"`
	Rating model.Rating `json:"rating"`
}

// GetAllProducts returns the whole catalog in the order the service sends it
func (c *Client) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products *[]model.Product
	if err := c.do(ctx, "GetAllProducts", http.MethodGet, productsEndpoint, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		return nil, model.NewError(model.KindAPIError, "empty response")
	}
	return *products, nil
}

// GetProductByID returns one product; a 404 surfaces as model.ErrNotFound
func (c *Client) GetProductByID(ctx context.Context, id int) (*model.Product, error) {
	return c.doProduct(ctx, "GetProductByID", http.MethodGet, productPath(id), nil)
}

// CreateProduct posts a new product with a placeholder image and an empty
// rating. The returned product is whatever the service answered, including
// the id it assigned.
func (c *Client) CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	body := createRequest{
		ProductInput: input,
		Image:        PlaceholderImage,
		Rating:       model.Rating{Rate: 0, Count: 0},
	}

	return c.doProduct(ctx, "CreateProduct", http.MethodPost, productsEndpoint, body)
}

// DeleteProduct deletes a product and returns the service's confirmation
// payload
func (c *Client) DeleteProduct(ctx context.Context, id int) (*model.Product, error) {
	return c.doProduct(ctx, "DeleteProduct", http.MethodDelete, productPath(id), nil)
}

// doProduct runs a request answered by a single product. A 2xx with a
// null body means the service returned no product and is reported as
// API_ERROR.
func (c *Client) doProduct(ctx context.Context, op, method, path string, body any) (*model.Product, error) {
	var product *model.Product
	if err := c.do(ctx, op, method, path, body, &product); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.NewError(model.KindAPIError, "empty response")
	}
	return product, nil
}

func productPath(id int) string {
	return fmt.Sprintf("%s/%d", productsEndpoint, id)
}

// do performs one request and decodes the JSON response into out
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) (err error) {
	ctx, span := c.tracer().Start(ctx, "catalog."+op)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return model.WrapError(model.KindAPIError, err, "failed to marshal body")
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return model.WrapError(model.KindAPIError, err, "failed to create request")
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.tracer().InjectHTTP(ctx, req.Header)

	span.SetAttributes(
		attribute.String("request.URL", url),
		attribute.String("request.method", method),
		attribute.String("request.id", requestID),
	)

	log := c.logger().With("request_id", requestID, "method", method, "url", url)
	log.Debug("sending request")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Info("request failed", "error", err)
		return model.WrapError(model.KindAPIError, err, "request failed")
	}
	defer resp.Body.Close()

	span.SetAttributes(
		attribute.Int("request.status", resp.StatusCode),
		attribute.String("request.time", time.Since(start).String()),
	)
	log.Debug("response received", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &model.Error{
			Kind:    model.KindFromStatus(resp.StatusCode),
			Message: fmt.Sprintf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
			Status:  resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Info("undecodable response", "error", err)
		return model.WrapError(model.KindAPIError, err, "failed to decode response")
	}
	return nil
}

func (c *Client) tracer() tracing.Tracer {
	if c.Tracer == nil {
		return tracing.Noop()
	}
	return c.Tracer
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}
