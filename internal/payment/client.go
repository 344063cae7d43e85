package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/editionssen/bookstore/internal/services/converter"
	"github.com/go-resty/resty/v2"
)

const (
	tokenPath    = "/v1/oauth2/token"
	ordersPath   = "/v2/checkout/orders"
	capturesPath = "/v2/payments/captures"
	currency     = "EUR"
	approveLink  = "approve"
)

// Client talks to the PayPal-style checkout API the shop collects payments
// with. Webhook handling lives with the provider integration, not here;
// the shop only creates and captures payments.
type Client struct {
	apiAddress   string
	clientID     string
	clientSecret string
	client       *resty.Client
}

func NewClient(apiAddress string, clientID string, clientSecret string) *Client {
	client := resty.New()

	client.
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		apiAddress:   apiAddress,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       client,
	}
}

type Payment struct {
	ID         string
	ApproveURL string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
	Amount      amount `json:"amount"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// CreatePayment registers a CAPTURE-intent payment for the order and
// returns its id with the URL the customer approves it at.
func (c *Client) CreatePayment(ctx context.Context, orderNumber string, totalCents int) (Payment, error) {
	accessToken, err := c.accessToken(ctx)
	if err != nil {
		return Payment{}, err
	}

	requestURL, err := url.JoinPath(c.apiAddress, ordersPath)
	if err != nil {
		return Payment{}, err
	}

	responseOrder := orderResponse{}

	response, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(createOrderRequest{
			Intent: "CAPTURE",
			PurchaseUnits: []purchaseUnit{
				{
					ReferenceID: orderNumber,
					Description: fmt.Sprintf("Order #%s", orderNumber),
					Amount: amount{
						CurrencyCode: currency,
						Value:        converter.FormatPriceString(totalCents),
					},
				},
			},
		}).
		SetResult(&responseOrder).
		Post(requestURL)
	if err != nil {
		return Payment{}, fmt.Errorf("error create payment: %w", err)
	}

	if response.StatusCode() != http.StatusCreated && response.StatusCode() != http.StatusOK {
		return Payment{}, fmt.Errorf("error create payment, invalid status: %v", response.Status())
	}

	payment := Payment{ID: responseOrder.ID}

	for _, link := range responseOrder.Links {
		if link.Rel == approveLink {
			payment.ApproveURL = link.Href
		}
	}

	return payment, nil
}

// CapturePayment captures an approved payment and returns the provider's
// resulting status.
func (c *Client) CapturePayment(ctx context.Context, paymentID string) (string, error) {
	accessToken, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	requestURL, err := url.JoinPath(c.apiAddress, ordersPath, paymentID, "capture")
	if err != nil {
		return "", err
	}

	responseOrder := orderResponse{}

	response, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetResult(&responseOrder).
		Post(requestURL)
	if err != nil {
		return "", fmt.Errorf("error capture payment: %w", err)
	}

	if response.StatusCode() != http.StatusCreated && response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("error capture payment, invalid status: %v", response.Status())
	}

	return responseOrder.Status, nil
}

type refundRequest struct {
	Amount      amount `json:"amount"`
	NoteToPayer string `json:"note_to_payer"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RefundPayment refunds a captured payment and returns the provider's
// refund id.
func (c *Client) RefundPayment(ctx context.Context, captureID string, amountCents int, note string) (string, error) {
	accessToken, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	requestURL, err := url.JoinPath(c.apiAddress, capturesPath, captureID, "refund")
	if err != nil {
		return "", err
	}

	responseRefund := refundResponse{}

	response, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(refundRequest{
			Amount: amount{
				CurrencyCode: currency,
				Value:        converter.FormatPriceString(amountCents),
			},
			NoteToPayer: note,
		}).
		SetResult(&responseRefund).
		Post(requestURL)
	if err != nil {
		return "", fmt.Errorf("error refund payment: %w", err)
	}

	if response.StatusCode() != http.StatusCreated && response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("error refund payment, invalid status: %v", response.Status())
	}

	return responseRefund.ID, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	requestURL, err := url.JoinPath(c.apiAddress, tokenPath)
	if err != nil {
		return "", err
	}

	responseToken := tokenResponse{}

	response, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&responseToken).
		Post(requestURL)
	if err != nil {
		return "", fmt.Errorf("error get payment access token: %w", err)
	}

	if response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("error get payment access token, invalid status: %v", response.Status())
	}

	if responseToken.AccessToken == "" {
		return "", fmt.Errorf("error get payment access token: empty token")
	}

	return responseToken.AccessToken, nil
}
