// Package marketplace is the order book client: it queries and mutates the
// remote GraphQL venue and decodes its loosely-typed responses into
// validated order values.
package marketplace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/pkg/cache"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/types"
)

const metadataTTL = time.Hour

// Client talks to the marketplace GraphQL API.
type Client struct {
	url        string
	httpClient *http.Client
	session    config.Session
	metadata   cache.Cache
	logger     *zap.Logger
}

// NewClient creates a marketplace client. The metadata cache is optional;
// a nil cache disables metadata caching.
func NewClient(url string, session config.Session, metadata cache.Cache, logger *zap.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session:  session,
		metadata: metadata,
		logger:   logger,
	}
}

type gqlRequest struct {
	OperationName string                 `json:"operationName,omitempty"`
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do posts one GraphQL operation and decodes the data payload into out.
// Transport failures surface as ErrRemoteUnavailable; a structured errors
// array surfaces as RemoteRejectedError.
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	start := time.Now()
	status := "ok"
	defer func() {
		RequestDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(operation, status).Inc()
	}()

	body, err := json.Marshal(gqlRequest{
		OperationName: operation,
		Query:         query,
		Variables:     variables,
	})
	if err != nil {
		status = "error"
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		status = "error"
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.session.APIKey != "" {
		req.Header.Set("X-API-Key", c.session.APIKey)
	}
	if c.session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		status = "unavailable"
		return fmt.Errorf("%w: %s: %v", types.ErrRemoteUnavailable, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status = "unavailable"
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s: status %d: %s", types.ErrRemoteUnavailable, operation, resp.StatusCode, raw)
	}

	var envelope gqlEnvelope
	err = json.NewDecoder(resp.Body).Decode(&envelope)
	if err != nil {
		status = "error"
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		status = "rejected"
		return &types.RemoteRejectedError{Message: envelope.Errors[0].Message}
	}

	if out != nil {
		err = json.Unmarshal(envelope.Data, out)
		if err != nil {
			status = "error"
			return fmt.Errorf("decode %s data: %w", operation, err)
		}
	}

	return nil
}

// GetAxieOrder returns the active sell order for one axie, or nil when the
// axie is not listed. At most one sell order per axie is assumed.
func (c *Client) GetAxieOrder(ctx context.Context, axieID int64) (*types.Order, error) {
	var data struct {
		Axie *struct {
			ID    flexString `json:"id"`
			Order *wireOrder `json:"order"`
		} `json:"axie"`
	}

	err := c.do(ctx, "GetAxieDetail", queryGetAxieDetail, map[string]interface{}{"axieId": axieID}, &data)
	if err != nil {
		return nil, err
	}

	if data.Axie == nil || data.Axie.Order == nil {
		return nil, nil
	}

	o, err := data.Axie.Order.toOrder()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetFloorCatalogue returns the cheapest listed axie orders market-wide,
// ascending by price.
func (c *Client) GetFloorCatalogue(ctx context.Context, size int) ([]types.Order, error) {
	var data struct {
		Axies struct {
			Total   int `json:"total"`
			Results []struct {
				ID    flexString `json:"id"`
				Order *wireOrder `json:"order"`
			} `json:"results"`
		} `json:"axies"`
	}

	variables := map[string]interface{}{
		"from":        0,
		"size":        size,
		"sort":        "PriceAsc",
		"auctionType": "Sale",
	}
	err := c.do(ctx, "GetAxieLatest", queryGetAxieLatest, variables, &data)
	if err != nil {
		return nil, err
	}

	orders := make([]types.Order, 0, len(data.Axies.Results))
	for _, result := range data.Axies.Results {
		if result.Order == nil {
			continue
		}
		o, err := result.Order.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

type wireOrderPage struct {
	Total    int         `json:"total"`
	Quantity flexString  `json:"quantity"`
	Data     []wireOrder `json:"data"`
}

func (p wireOrderPage) toPage() (types.OrderBookPage, error) {
	orders, err := toOrders(p.Data)
	if err != nil {
		return types.OrderBookPage{}, err
	}
	listed, err := parseBig(p.Quantity)
	if err != nil {
		return types.OrderBookPage{}, err
	}
	return types.OrderBookPage{
		Orders:      orders,
		Total:       p.Total,
		TotalListed: listed,
	}, nil
}

// GetMaterialOrders returns competing sell orders for a material token,
// ascending by price.
func (c *Client) GetMaterialOrders(ctx context.Context, tokenID string, from, size int) (types.OrderBookPage, error) {
	var data struct {
		Erc1155Token *struct {
			Orders wireOrderPage `json:"orders"`
		} `json:"erc1155Token"`
	}

	variables := map[string]interface{}{
		"tokenType": "Material",
		"tokenId":   tokenID,
		"from":      from,
		"size":      size,
		"sort":      "PriceAsc",
	}
	err := c.do(ctx, "GetBuyNowErc1155Orders", queryGetErc1155Orders, variables, &data)
	if err != nil {
		return types.OrderBookPage{}, err
	}

	if data.Erc1155Token == nil {
		return types.OrderBookPage{}, nil
	}
	return data.Erc1155Token.Orders.toPage()
}

// GetOrdersByMaker returns every order the maker has open on a material
// token, including otherwise-invalid ones, so cancellation can clean up
// stale entries.
func (c *Client) GetOrdersByMaker(ctx context.Context, tokenID string, maker common.Address) (types.OrderBookPage, error) {
	var data struct {
		Erc1155ByOwner *struct {
			TotalOwned int           `json:"totalOwned"`
			Orders     wireOrderPage `json:"orders"`
		} `json:"erc1155ByOwner"`
	}

	variables := map[string]interface{}{
		"tokenType": "Material",
		"tokenId":   tokenID,
		"owner":     maker.Hex(),
	}
	err := c.do(ctx, "GetErc1155DetailByOwner", queryGetErc1155ByOwner, variables, &data)
	if err != nil {
		return types.OrderBookPage{}, err
	}

	if data.Erc1155ByOwner == nil {
		return types.OrderBookPage{}, nil
	}

	page := data.Erc1155ByOwner.Orders
	// The aliased field names differ from the standard order page.
	return wireOrderPage{
		Total:    page.Total,
		Quantity: page.Quantity,
		Data:     page.Data,
	}.toPage()
}

// GetMaterialBalance returns how many units of a material token the owner
// holds.
func (c *Client) GetMaterialBalance(ctx context.Context, tokenID string, owner common.Address) (int64, error) {
	var data struct {
		Erc1155Token *struct {
			Total int64 `json:"total"`
		} `json:"erc1155Token"`
	}

	variables := map[string]interface{}{
		"tokenId": tokenID,
		"owner":   owner.Hex(),
	}
	err := c.do(ctx, "GetErc1155Token", queryGetErc1155Balance, variables, &data)
	if err != nil {
		return 0, err
	}

	if data.Erc1155Token == nil {
		return 0, nil
	}
	return data.Erc1155Token.Total, nil
}

// Material describes one material token a user holds or trades.
type Material struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TokenAddress string     `json:"tokenAddress"`
	TokenID      flexString `json:"tokenId"`
	TokenType    string     `json:"tokenType"`
	Quantity     int64      `json:"quantity"`
	MinPrice     flexString `json:"minPrice"`
	TotalSupply  int64      `json:"totalSupply"`
	TotalOwners  int64      `json:"totalOwners"`
}

// GetUserMaterials lists the material tokens an owner holds.
func (c *Client) GetUserMaterials(ctx context.Context, owner common.Address) ([]Material, error) {
	var data struct {
		Erc1155Tokens struct {
			Total   int        `json:"total"`
			Results []Material `json:"results"`
		} `json:"erc1155Tokens"`
	}

	err := c.do(ctx, "GetMaterials", queryGetMaterials, map[string]interface{}{"owner": owner.Hex()}, &data)
	if err != nil {
		return nil, err
	}

	return data.Erc1155Tokens.Results, nil
}

// GetMaterialDetail returns metadata for one material token. Metadata is
// effectively static and is served from the cache when possible.
func (c *Client) GetMaterialDetail(ctx context.Context, tokenID string) (*Material, error) {
	cacheKey := "material:" + tokenID
	if c.metadata != nil {
		if cached, ok := c.metadata.Get(cacheKey); ok {
			if material, ok := cached.(*Material); ok {
				return material, nil
			}
		}
	}

	var data struct {
		Erc1155Token *Material `json:"erc1155Token"`
	}

	err := c.do(ctx, "GetMaterialDetail", queryGetMaterialDetail, map[string]interface{}{"tokenId": tokenID}, &data)
	if err != nil {
		return nil, err
	}

	if data.Erc1155Token == nil {
		return nil, nil
	}

	if c.metadata != nil {
		c.metadata.Set(cacheKey, data.Erc1155Token, metadataTTL)
	}

	return data.Erc1155Token, nil
}

// CreateOrderAsset is the wire shape of one asset inside an order-creation
// mutation.
type CreateOrderAsset struct {
	ID       string `json:"id"`
	Address  string `json:"address"`
	Erc      string `json:"erc"`
	Quantity string `json:"quantity"`
}

// CreateOrderInput is the InputOrder variable of the CreateOrder mutation.
// The field shapes here are what the server validates the signature against.
type CreateOrderInput struct {
	Maker         string             `json:"maker"`
	Nonce         int64              `json:"nonce"`
	Assets        []CreateOrderAsset `json:"assets"`
	Kind          string             `json:"kind"`
	ExpectedState string             `json:"expectedState"`
	BasePrice     string             `json:"basePrice"`
	EndedPrice    string             `json:"endedPrice"`
	StartedAt     int64              `json:"startedAt"`
	EndedAt       int64              `json:"endedAt"`
	ExpiredAt     int64              `json:"expiredAt"`
}

// CreateOrder submits a signed sell intent to the order book and returns
// the order as the server recorded it.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput, signature string) (*types.Order, error) {
	var data struct {
		CreateOrder *wireOrder `json:"createOrder"`
	}

	variables := map[string]interface{}{
		"order":     input,
		"signature": signature,
	}
	err := c.do(ctx, "CreateOrder", mutationCreateOrder, variables, &data)
	if err != nil {
		return nil, err
	}

	if data.CreateOrder == nil {
		return nil, nil
	}

	o, err := data.CreateOrder.toOrder()
	if err != nil {
		return nil, err
	}
	return &o, nil
}
