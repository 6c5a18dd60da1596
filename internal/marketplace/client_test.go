package marketplace

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/testutil"
	"github.com/roninmarket/marketbot/pkg/cache"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/types"
)

func newTestClient(t *testing.T, mock *testutil.MockBook) *Client {
	t.Helper()
	return NewClient(mock.URL, config.Session{APIKey: "test-key"}, nil, zap.NewNop())
}

// wireAxieOrder mimics the loosely-typed JSON the book serves: some numeric
// fields as strings, some as numbers.
func wireAxieOrder(maker string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "1234567",
		"maker": maker,
		"kind":  "Sell",
		"assets": []map[string]interface{}{{
			"erc":               "Erc721",
			"address":           "0x32950db2a7164ae833121501c797d79e7b79d74c",
			"id":                "123",
			"quantity":          "0",
			"orderId":           1234567,
			"availableQuantity": "1",
			"remainingQuantity": 1,
		}},
		"expiredAt":           1_715_634_800,
		"paymentToken":        "0xc99a6a985ed2cac1ef41640596c5a5f9f4e19ef5",
		"startedAt":           1_700_000_000,
		"basePrice":           "1500000000000000000",
		"endedAt":             0,
		"endedPrice":          "0",
		"expectedState":       "0",
		"nonce":               0,
		"marketFeePercentage": 425,
		"signature":           "0xdeadbeef",
		"currentPrice":        "1500000000000000000",
	}
}

func TestGetAxieOrder(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Respond("GetAxieDetail", map[string]interface{}{
		"axie": map[string]interface{}{
			"id":    "123",
			"order": wireAxieOrder(testutil.OtherAddress),
		},
	})

	client := newTestClient(t, mock)

	o, err := client.GetAxieOrder(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetAxieOrder() error: %v", err)
	}
	if o == nil {
		t.Fatal("GetAxieOrder() returned nil for a listed axie")
	}

	if o.Maker != common.HexToAddress(testutil.OtherAddress) {
		t.Errorf("Maker = %s, want %s", o.Maker.Hex(), testutil.OtherAddress)
	}
	if o.Asset.Standard != types.StandardNonFungible {
		t.Errorf("Standard = %d, want non-fungible", o.Asset.Standard)
	}
	if o.CurrentPrice.String() != "1500000000000000000" {
		t.Errorf("CurrentPrice = %s", o.CurrentPrice)
	}
	if o.Asset.AvailableQuantity.Int64() != 1 {
		t.Errorf("AvailableQuantity = %s, want 1", o.Asset.AvailableQuantity)
	}
	if o.MarketFeePercentage != 425 {
		t.Errorf("MarketFeePercentage = %d, want 425", o.MarketFeePercentage)
	}
}

func TestGetAxieOrder_Unlisted(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Respond("GetAxieDetail", map[string]interface{}{
		"axie": map[string]interface{}{"id": "123", "order": nil},
	})

	client := newTestClient(t, mock)

	o, err := client.GetAxieOrder(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetAxieOrder() error: %v", err)
	}
	if o != nil {
		t.Errorf("GetAxieOrder() = %+v, want nil for unlisted axie", o)
	}
}

func TestDo_RemoteRejection(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Reject("GetAxieDetail", "order already exists")

	client := newTestClient(t, mock)

	_, err := client.GetAxieOrder(context.Background(), 123)
	var rejected *types.RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want RemoteRejectedError", err)
	}
	if rejected.Message != "order already exists" {
		t.Errorf("Message = %q", rejected.Message)
	}
	if !types.IsBenignRejection(err) {
		t.Error("duplicate-listing rejection should classify as benign")
	}
}

func TestDo_RemoteUnavailable(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.FailWithStatus(http.StatusBadGateway)

	client := newTestClient(t, mock)

	_, err := client.GetAxieOrder(context.Background(), 123)
	if !errors.Is(err, types.ErrRemoteUnavailable) {
		t.Errorf("error = %v, want ErrRemoteUnavailable", err)
	}
}

func TestGetMaterialOrders(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	wire := wireAxieOrder(testutil.OtherAddress)
	wire["assets"] = []map[string]interface{}{{
		"erc":               "Erc1155",
		"address":           "0xa96660f0e4a3e9bc7388925d245a6d4d79e21259",
		"id":                "7",
		"quantity":          "25",
		"availableQuantity": "20",
		"remainingQuantity": "20",
	}}

	mock.Respond("GetBuyNowErc1155Orders", map[string]interface{}{
		"erc1155Token": map[string]interface{}{
			"orders": map[string]interface{}{
				"total":    1,
				"quantity": "20",
				"data":     []interface{}{wire},
			},
		},
	})

	client := newTestClient(t, mock)

	page, err := client.GetMaterialOrders(context.Background(), "7", 0, 50)
	if err != nil {
		t.Fatalf("GetMaterialOrders() error: %v", err)
	}

	if len(page.Orders) != 1 {
		t.Fatalf("len(Orders) = %d, want 1", len(page.Orders))
	}
	if page.Orders[0].Asset.Standard != types.StandardFungible {
		t.Errorf("Standard = %d, want fungible", page.Orders[0].Asset.Standard)
	}
	if page.Orders[0].Asset.AvailableQuantity.Int64() != 20 {
		t.Errorf("AvailableQuantity = %s, want 20", page.Orders[0].Asset.AvailableQuantity)
	}
	if page.TotalListed.Int64() != 20 {
		t.Errorf("TotalListed = %s, want 20", page.TotalListed)
	}
}

func TestGetMaterialBalance_NoHoldings(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Respond("GetErc1155Token", map[string]interface{}{"erc1155Token": nil})

	client := newTestClient(t, mock)

	balance, err := client.GetMaterialBalance(context.Background(), "7", testutil.TestMaker())
	if err != nil {
		t.Fatalf("GetMaterialBalance() error: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
}

func TestGetMaterialDetail_Cached(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Respond("GetMaterialDetail", map[string]interface{}{
		"erc1155Token": map[string]interface{}{
			"name":        "Small Love Potion",
			"tokenId":     "7",
			"tokenType":   "Material",
			"totalSupply": 100000,
		},
	})

	metadata, err := cache.New(&cache.Config{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	defer metadata.Close()

	client := NewClient(mock.URL, config.Session{}, metadata, zap.NewNop())

	first, err := client.GetMaterialDetail(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetMaterialDetail() error: %v", err)
	}
	if first.Name != "Small Love Potion" {
		t.Errorf("Name = %q", first.Name)
	}

	metadata.Wait()

	second, err := client.GetMaterialDetail(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetMaterialDetail() second call error: %v", err)
	}
	if second.Name != first.Name {
		t.Errorf("cached Name = %q, want %q", second.Name, first.Name)
	}

	if got := len(mock.Requests()); got != 1 {
		t.Errorf("server requests = %d, want 1 (second read served from cache)", got)
	}
}

func TestCreateOrder(t *testing.T) {
	mock := testutil.NewMockBook()
	defer mock.Close()

	mock.Respond("CreateOrder", map[string]interface{}{
		"createOrder": wireAxieOrder(testutil.TestKeyAddr),
	})

	client := newTestClient(t, mock)

	input := CreateOrderInput{
		Maker: testutil.TestKeyAddr,
		Assets: []CreateOrderAsset{{
			ID:       "123",
			Address:  "0x32950db2a7164ae833121501c797d79e7b79d74c",
			Erc:      "Erc721",
			Quantity: "0",
		}},
		Kind:      "Sell",
		BasePrice: "1500000000000000000",
		StartedAt: 1_700_000_000,
		ExpiredAt: 1_715_634_800,
	}

	created, err := client.CreateOrder(context.Background(), input, "0xsigned")
	if err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}
	if created == nil {
		t.Fatal("CreateOrder() returned nil order")
	}
	if created.Maker != testutil.TestMaker() {
		t.Errorf("Maker = %s, want %s", created.Maker.Hex(), testutil.TestKeyAddr)
	}

	requests := mock.Requests()
	if len(requests) != 1 {
		t.Fatalf("server requests = %d, want 1", len(requests))
	}
	if requests[0].OperationName != "CreateOrder" {
		t.Errorf("operation = %s", requests[0].OperationName)
	}
	if requests[0].Variables["signature"] != "0xsigned" {
		t.Errorf("signature variable = %v", requests[0].Variables["signature"])
	}
}
