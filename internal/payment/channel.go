package payment

import (
	"errors"
	"strings"

	"github.com/noah-isme/backend-kasir/internal/store"
)

// Channel identifies a payment method: cash, bank transfer, or one e-wallet
// provider. E-wallet channels are encoded as "ewallet:<provider>".
type Channel string

const (
	// ChannelCash is the initial and default selection; always available.
	ChannelCash Channel = "cash"
	// ChannelTransfer requires the complete bank triplet in store settings.
	ChannelTransfer Channel = "transfer"
)

const ewalletPrefix = "ewallet:"

// ErrChannelUnavailable is returned when a channel is selected whose required
// store fields are absent.
var ErrChannelUnavailable = errors.New("payment channel unavailable")

// EwalletChannel builds the channel for an e-wallet provider.
func EwalletChannel(p Provider) Channel {
	return Channel(ewalletPrefix + string(p))
}

// Ewallet extracts the provider when the channel is an e-wallet channel.
func (c Channel) Ewallet() (Provider, bool) {
	raw, ok := strings.CutPrefix(string(c), ewalletPrefix)
	if !ok {
		return "", false
	}
	return Provider(raw), true
}

// Valid reports whether the channel names a known method, available or not.
func (c Channel) Valid() bool {
	switch c {
	case ChannelCash, ChannelTransfer:
		return true
	}
	p, ok := c.Ewallet()
	return ok && p.Known()
}

// Available reports whether the channel may be offered given the store's
// payment settings.
func Available(cfg store.PaymentConfig, c Channel) bool {
	switch c {
	case ChannelCash:
		return true
	case ChannelTransfer:
		return cfg.HasBankTransfer()
	}
	p, ok := c.Ewallet()
	if !ok || !p.Known() {
		return false
	}
	_, configured := cfg.EwalletNumbers()[string(p)]
	return configured
}

// AvailableChannels resolves the selectable channels for the store, cash
// first, then transfer, then e-wallet providers in display order.
func AvailableChannels(cfg store.PaymentConfig) []Channel {
	channels := []Channel{ChannelCash}
	if cfg.HasBankTransfer() {
		channels = append(channels, ChannelTransfer)
	}
	numbers := cfg.EwalletNumbers()
	for _, p := range Providers() {
		if _, ok := numbers[string(p)]; ok {
			channels = append(channels, EwalletChannel(p))
		}
	}
	return channels
}
