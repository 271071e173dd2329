package gateway

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/config"
)

// RedirectBuilder builds the hosted payment page URL an order is sent to after checkout.
type RedirectBuilder struct {
	base          *url.URL
	apiKey        string
	source        string
	defaultTarget string
	targets       map[string]string
}

func NewRedirectBuilder(cfg config.GatewayConfig) (*RedirectBuilder, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing gateway base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway base url %q must be absolute", cfg.BaseURL)
	}

	targets := make(map[string]string, len(cfg.TargetCurrencies))
	for method, currency := range cfg.TargetCurrencies {
		targets[strings.ToLower(method)] = currency
	}

	return &RedirectBuilder{
		base:          base,
		apiKey:        cfg.APIKey,
		source:        cfg.SourceCurrency,
		defaultTarget: cfg.DefaultTargetCurrency,
		targets:       targets,
	}, nil
}

// TargetCurrency maps a payment method tag to the currency the gateway converts into.
// Unknown and empty methods get the default.
func (b *RedirectBuilder) TargetCurrency(paymentMethod string) string {
	if currency, ok := b.targets[strings.ToLower(strings.TrimSpace(paymentMethod))]; ok {
		return currency
	}
	return b.defaultTarget
}

func (b *RedirectBuilder) RedirectURL(total decimal.Decimal, orderNumber, paymentMethod string) string {
	u := *b.base
	q := u.Query()
	q.Set("amount", total.StringFixed(2))
	q.Set("from", b.source)
	q.Set("to", b.TargetCurrency(paymentMethod))
	q.Set("order_id", orderNumber)
	q.Set("api_key", b.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}
