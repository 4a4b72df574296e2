package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"epsol/importer/internal/config"
	"epsol/importer/internal/domain"
	"epsol/importer/internal/parser"
	"epsol/importer/internal/proxy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"resty.dev/v3"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// EpsolClient fetches catalog pages. Every method fails soft: a missing page is
// reported as false, never as an error.
type EpsolClient interface {
	FetchHTML(ctx context.Context, url string) (string, bool)
	GetCategories(ctx context.Context) ([]domain.CategoryLink, bool)
	GetListingPage(ctx context.Context, url string) (*domain.ListingPage, bool)
	GetProduct(ctx context.Context, url string) (*domain.ProductDetails, bool)
	Close() error
}

type epsolClient struct {
	httpClient    *resty.Client
	parser        *parser.Parser
	proxySupplier proxy.ProxySupplier
	proxyURL      string
}

func NewEpsolClient(cfg config.EpsolConfig, p *parser.Parser, proxySupplier proxy.ProxySupplier) EpsolClient {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")

	c := &epsolClient{
		httpClient:    client,
		parser:        p,
		proxySupplier: proxySupplier,
	}

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			c.useProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	return c
}

// FetchHTML returns the page body decoded to UTF-8. Timeouts, connection errors
// and non-2xx statuses all yield false. A transport error while behind a proxy
// switches to the next proxy and retries once.
func (c *epsolClient) FetchHTML(ctx context.Context, url string) (string, bool) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil && ctx.Err() == nil && c.rotateProxy() {
		log.Infof("🔄 Retrying %s with proxy %s", url, c.proxyURL)
		resp, err = c.httpClient.R().
			SetContext(ctx).
			Get(url)
	}
	if err != nil {
		log.Debugf("Skipping %s: %v", url, err)
		return "", false
	}

	if !resp.IsSuccess() {
		log.Debugf("Skipping %s: HTTP %s", url, resp.Status())
		return "", false
	}

	body, err := decodeBody(resp.Bytes(), resp.Header().Get("Content-Type"))
	if err != nil {
		log.Debugf("Skipping %s: %v", url, err)
		return "", false
	}

	return body, true
}

func (c *epsolClient) GetCategories(ctx context.Context) ([]domain.CategoryLink, bool) {
	html, ok := c.FetchHTML(ctx, c.parser.CatalogURL())
	if !ok {
		return nil, false
	}

	doc, err := parser.NewDocument(html)
	if err != nil {
		log.Warnf("Failed to parse catalog page: %v", err)
		return nil, false
	}

	return c.parser.ParseCategories(doc), true
}

// GetListingPage extracts product links from a listing. When the page has no
// product links it is parsed as a single product page instead.
func (c *epsolClient) GetListingPage(ctx context.Context, url string) (*domain.ListingPage, bool) {
	html, ok := c.FetchHTML(ctx, url)
	if !ok {
		return nil, false
	}

	doc, err := parser.NewDocument(html)
	if err != nil {
		log.Warnf("Failed to parse listing %s: %v", url, err)
		return nil, false
	}

	page := &domain.ListingPage{
		URL:     url,
		Section: c.parser.ParseSection(doc),
		Links:   c.parser.ParseListing(doc),
	}
	if len(page.Links) == 0 {
		page.Product = c.parser.ParseProduct(doc)
	}

	return page, true
}

func (c *epsolClient) GetProduct(ctx context.Context, url string) (*domain.ProductDetails, bool) {
	html, ok := c.FetchHTML(ctx, url)
	if !ok {
		return nil, false
	}

	doc, err := parser.NewDocument(html)
	if err != nil {
		log.Warnf("Failed to parse product %s: %v", url, err)
		return nil, false
	}

	return c.parser.ParseProduct(doc), true
}

// rotateProxy switches to the supplier's next proxy. It reports false when there is
// no other proxy to switch to.
func (c *epsolClient) rotateProxy() bool {
	if c.proxySupplier == nil || c.proxyURL == "" {
		return false
	}

	next := c.proxySupplier.Get()
	if next == "" || next == c.proxyURL {
		return false
	}

	log.Warnf("🔄 Proxy %s failed, switching to %s", c.proxyURL, next)
	c.useProxy(next)
	return true
}

func (c *epsolClient) useProxy(proxyURL string) {
	c.httpClient.SetProxy(proxyURL)
	c.proxyURL = proxyURL
}

// Close releases idle connections held by the HTTP client.
func (c *epsolClient) Close() error {
	return c.httpClient.Close()
}

// decodeBody converts body to UTF-8 using the Content-Type header or the page's
// meta charset. Undeclared non-UTF-8 pages are assumed to be Windows-1251.
func decodeBody(body []byte, contentType string) (string, error) {
	var reader io.Reader
	if _, _, certain := charset.DetermineEncoding(body, contentType); !certain && !utf8.Valid(body) {
		reader = charmap.Windows1251.NewDecoder().Reader(bytes.NewReader(body))
	} else {
		var err error
		reader, err = charset.NewReader(bytes.NewReader(body), contentType)
		if err != nil {
			return "", fmt.Errorf("failed to detect charset: %w", err)
		}
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}

	return string(decoded), nil
}
