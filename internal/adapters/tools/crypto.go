package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
)

const DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price"

type CryptoPrice struct {
	Client   *outbound.Client
	PriceURL string
}

type cryptoArgs struct {
	Coin     string `json:"coin"`
	Currency string `json:"currency"`
}

type cryptoPayload struct {
	Coin     string      `json:"coin"`
	Currency string      `json:"currency"`
	Price    json.Number `json:"price"`
}

func (c *CryptoPrice) Tool() Tool {
	return Tool{
		Name:        "get_crypto_price",
		Description: "Get the current price of a cryptocurrency by CoinGecko id (bitcoin, ethereum, ...).",
		Parameters: objectSchema([]string{"coin"}, map[string]any{
			"coin":     stringProperty("CoinGecko coin id, for example: bitcoin"),
			"currency": stringProperty("Quote currency (usd, eur, ...), usd by default"),
		}),
		Handler: c.Run,
	}
}

func (c *CryptoPrice) Run(ctx context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args cryptoArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}
	if strings.TrimSpace(args.Currency) == "" {
		args.Currency = "usd"
	}

	coinID := strings.ToLower(strings.TrimSpace(args.Coin))
	currency := strings.ToLower(strings.TrimSpace(args.Currency))
	if coinID == "" {
		return "Error: coin is required."
	}

	var prices map[string]map[string]json.Number
	query := url.Values{"ids": {coinID}, "vs_currencies": {currency}}
	if err := c.Client.GetJSON(ctx, orDefault(c.PriceURL, DefaultPriceURL), query, &prices); err != nil {
		return fmt.Sprintf("API error: %v", err)
	}

	quotes, ok := prices[coinID]
	if !ok {
		return fmt.Sprintf("Coin not found: %s. Check the id on coingecko.com", args.Coin)
	}
	price, ok := quotes[currency]
	if !ok {
		return fmt.Sprintf("Currency not found: %s", args.Currency)
	}

	return encodeJSON(cryptoPayload{Coin: args.Coin, Currency: args.Currency, Price: price})
}
