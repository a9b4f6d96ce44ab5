package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/marketplace"
)

// yandexDateLayout is the date format of the fromDate/toDate query parameters
const yandexDateLayout = "02-01-2006"

// yandexOrdersPageSize is the page size used when listing recent orders
const yandexOrdersPageSize = 50

// yandexOffersPageLimit is the page size used when listing offer mappings
const yandexOffersPageLimit = 200

// YandexAdapter implements the marketplace.Platform port for the Yandex.Market
// partner API
type YandexAdapter struct {
	config     *YandexConfig
	httpClient *http.Client

	// tenantConfigs stores per-tenant configurations. Deployments serving a
	// single campaign leave this empty and fall back to the default config.
	tenantConfigs map[uuid.UUID]*YandexConfig
	mu            sync.RWMutex // Protects tenantConfigs map access
}

// NewYandexAdapter creates a new Yandex.Market adapter with the given configuration
func NewYandexAdapter(config *YandexConfig) (*YandexAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &YandexAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tenantConfigs: make(map[uuid.UUID]*YandexConfig),
	}, nil
}

// NewMultiTenantYandexAdapter creates an adapter with no default campaign.
// Calls for tenants without a registered configuration fail with
// marketplace.ErrPlatformNotConfigured until SetTenantConfig runs.
func NewMultiTenantYandexAdapter(timeout time.Duration) *YandexAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YandexAdapter{
		httpClient:    &http.Client{Timeout: timeout},
		tenantConfigs: make(map[uuid.UUID]*YandexConfig),
	}
}

// SetTenantConfig sets the configuration for a specific tenant
func (a *YandexAdapter) SetTenantConfig(tenantID uuid.UUID, config *YandexConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tenantConfigs[tenantID] = config
	return nil
}

// getTenantConfig retrieves the configuration for a tenant
func (a *YandexAdapter) getTenantConfig(tenantID uuid.UUID) (*YandexConfig, error) {
	a.mu.RLock()
	config, ok := a.tenantConfigs[tenantID]
	a.mu.RUnlock()
	if ok {
		return config, nil
	}
	if a.config != nil {
		return a.config, nil
	}
	return nil, marketplace.ErrPlatformNotConfigured
}

// GetOrder fetches the canonical order snapshot by its remote ID
func (a *YandexAdapter) GetOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*marketplace.RemoteOrder, error) {
	if remoteOrderID == "" {
		return nil, marketplace.ErrOrderNotFound
	}

	config, err := a.getTenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/campaigns/%s/orders/%s", config.CampaignID, remoteOrderID)
	status, body, err := a.doRequest(ctx, config, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, marketplace.ErrOrderNotFound
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d %s", marketplace.ErrPlatformRequestFailed, status, errorMessage(body))
	}

	var envelope yandexOrderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if len(envelope.Order) == 0 {
		return nil, marketplace.ErrPlatformInvalidResponse
	}

	return parseRemoteOrder(envelope.Order)
}

// ListRecentOrders lists orders updated within the given window, walking every
// page of the listing
func (a *YandexAdapter) ListRecentOrders(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]marketplace.RemoteOrder, error) {
	config, err := a.getTenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/campaigns/%s/orders", config.CampaignID)
	orders := make([]marketplace.RemoteOrder, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("fromDate", from.Format(yandexDateLayout))
		query.Set("toDate", to.Format(yandexDateLayout))
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(yandexOrdersPageSize))

		status, body, err := a.doRequest(ctx, config, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, fmt.Errorf("%w: HTTP %d %s", marketplace.ErrPlatformRequestFailed, status, errorMessage(body))
		}

		var resp yandexOrdersListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformInvalidResponse, err)
		}

		for _, raw := range resp.Orders {
			remote, err := parseRemoteOrder(raw)
			if err != nil {
				return nil, err
			}
			orders = append(orders, *remote)
		}

		if len(resp.Orders) == 0 || page >= resp.Pager.PagesCount {
			break
		}
	}

	return orders, nil
}

// ListOffers lists every offer of the tenant's remote catalog, walking the
// token-paged offer mappings listing
func (a *YandexAdapter) ListOffers(ctx context.Context, tenantID uuid.UUID) ([]marketplace.RemoteOffer, error) {
	config, err := a.getTenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/campaigns/%s/offer-mapping-entries", config.CampaignID)
	offers := make([]marketplace.RemoteOffer, 0)
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(yandexOffersPageLimit))
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		status, body, err := a.doRequest(ctx, config, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, fmt.Errorf("%w: HTTP %d %s", marketplace.ErrPlatformRequestFailed, status, errorMessage(body))
		}

		var resp yandexOfferMappingsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformInvalidResponse, err)
		}

		for _, raw := range resp.Result.OfferMappingEntries {
			var entry yandexOfferMapping
			if err := json.Unmarshal(raw, &entry); err != nil {
				return nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformInvalidResponse, err)
			}
			offers = append(offers, marketplace.RemoteOffer{
				OfferID:   entry.Offer.OfferID,
				ShopSKU:   entry.Offer.ShopSKU,
				MarketSKU: entry.Mapping.MarketSKU.String(),
				Name:      entry.Offer.Name,
				Price:     entry.Offer.Price,
				Available: entry.Offer.Available == nil || *entry.Offer.Available,
				Raw:       raw,
			})
		}

		pageToken = resp.Result.Paging.NextPageToken
		if pageToken == "" || len(resp.Result.OfferMappingEntries) == 0 {
			break
		}
	}

	return offers, nil
}

// DeliverDigitalGoods submits activation codes for every digital item of an
// order in one call
func (a *YandexAdapter) DeliverDigitalGoods(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, items []marketplace.DigitalGoods) error {
	if len(items) == 0 {
		return nil
	}

	config, err := a.getTenantConfig(tenantID)
	if err != nil {
		return err
	}

	request := yandexDeliverDigitalGoodsRequest{
		Items: make([]yandexDigitalGoodsItem, 0, len(items)),
	}
	for _, item := range items {
		request.Items = append(request.Items, yandexDigitalGoodsItem{
			ID:           item.ItemID,
			Codes:        item.Codes,
			Slip:         item.Instructions,
			ActivateTill: item.ActivateTill,
		})
	}

	path := fmt.Sprintf("/campaigns/%s/orders/%s/deliverDigitalGoods", config.CampaignID, remoteOrderID)
	status, body, err := a.doRequest(ctx, config, http.MethodPost, path, nil, request)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return marketplace.ErrOrderNotFound
	}
	if status >= 400 {
		return fmt.Errorf("%w: HTTP %d %s", marketplace.ErrDeliveryRejected, status, errorMessage(body))
	}

	return nil
}

// doRequest performs an HTTP request against the partner API and returns the
// response status and body. Transport failures are reported as
// ErrPlatformRequestFailed; HTTP error statuses are left to the caller.
func (a *YandexAdapter) doRequest(ctx context.Context, config *YandexConfig, method, path string, query url.Values, payload any) (int, []byte, error) {
	requestURL := config.APIBaseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("yandex: failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("yandex: failed to create request: %w", err)
	}

	req.Header.Set("Api-Key", config.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("yandex: failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// ParseOrderPayload converts a pushed order payload into the domain
// representation. Webhook notifications carry the same wire format the partner
// API returns, optionally wrapped in an {"order": ...} envelope, so push and
// poll share one parser.
func ParseOrderPayload(raw json.RawMessage) (*marketplace.RemoteOrder, error) {
	var envelope yandexOrderEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Order) > 0 {
		return parseRemoteOrder(envelope.Order)
	}
	return parseRemoteOrder(raw)
}

// parseRemoteOrder converts one raw wire order into the domain representation,
// preserving the untouched payload for snapshot storage
func parseRemoteOrder(raw json.RawMessage) (*marketplace.RemoteOrder, error) {
	var o yandexOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if o.ID == 0 {
		return nil, marketplace.ErrPlatformInvalidResponse
	}

	remote := &marketplace.RemoteOrder{
		ID:     strconv.FormatInt(o.ID, 10),
		Status: o.Status,
		Buyer: marketplace.RemoteBuyer{
			ID:        o.Buyer.ID,
			FirstName: o.Buyer.FirstName,
			LastName:  o.Buyer.LastName,
		},
		Items: make([]marketplace.RemoteOrderItem, 0, len(o.Items)),
		Raw:   raw,
	}
	for _, item := range o.Items {
		remote.Items = append(remote.Items, marketplace.RemoteOrderItem{
			ID:        item.ID,
			OfferID:   item.OfferID,
			ShopSKU:   item.ShopSKU,
			MarketSKU: item.MarketSKU.String(),
			Count:     item.Count,
			Price:     item.Price,
			Digital:   item.Digital,
		})
	}

	return remote, nil
}

// errorMessage extracts the platform's error message from an error response
// body, or returns the empty string
func errorMessage(body []byte) string {
	var resp yandexErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.message()
}

// Ensure YandexAdapter implements the marketplace Platform port
var _ marketplace.Platform = (*YandexAdapter)(nil)
