package payment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/payment"
	"github.com/noah-isme/backend-kasir/internal/store"
)

func fullConfig() store.PaymentConfig {
	return store.PaymentConfig{
		BankName:          "BCA",
		BankAccountNumber: "1234567890",
		BankAccountHolder: "Budi Santoso",
		GopayNumber:       "0812-345-6789",
		OvoNumber:         "0812 345 6789",
		DanaNumber:        "0812-345-6789",
		ShopeepayNumber:   "+62 812-345-6789",
	}
}

func TestBankTransferBlockFixedOrder(t *testing.T) {
	block := payment.BankTransferBlock(fullConfig())
	require.Equal(t, "BCA\n1234567890\nBudi Santoso", block)
}

func TestDeepLinkStripsNonDigits(t *testing.T) {
	require.Equal(t, "dana://qr?phone=08123456789", payment.DeepLink(payment.Dana, "0812-345-6789"))
	require.Equal(t, "gopay://qr?phone=08123456789", payment.DeepLink(payment.Gopay, "0812 345 6789"))
	require.Equal(t, "shopeepay://qr?phone=628123456789", payment.DeepLink(payment.Shopeepay, "+62 812-345-6789"))
}

func TestDeepLinkUnknownProviderIsEmpty(t *testing.T) {
	require.Empty(t, payment.DeepLink(payment.Provider("linkaja"), "0812"))
}

func TestPayloadFor(t *testing.T) {
	cfg := fullConfig()

	require.Empty(t, payment.PayloadFor(cfg, payment.ChannelCash))
	require.Equal(t, "BCA\n1234567890\nBudi Santoso", payment.PayloadFor(cfg, payment.ChannelTransfer))
	require.Equal(t, "ovo://qr?phone=08123456789", payment.PayloadFor(cfg, payment.EwalletChannel(payment.Ovo)))

	// missing source fields yield empty payloads
	require.Empty(t, payment.PayloadFor(store.PaymentConfig{}, payment.ChannelTransfer))
	require.Empty(t, payment.PayloadFor(store.PaymentConfig{}, payment.EwalletChannel(payment.Dana)))
	require.Empty(t, payment.PayloadFor(cfg, payment.Channel("ewallet:linkaja")))
}

func TestChannelValidity(t *testing.T) {
	require.True(t, payment.ChannelCash.Valid())
	require.True(t, payment.ChannelTransfer.Valid())
	require.True(t, payment.EwalletChannel(payment.Gopay).Valid())
	require.False(t, payment.Channel("ewallet:linkaja").Valid())
	require.False(t, payment.Channel("crypto").Valid())
}

func TestAvailableChannelsOrderAndFiltering(t *testing.T) {
	channels := payment.AvailableChannels(fullConfig())
	require.Equal(t, []payment.Channel{
		payment.ChannelCash,
		payment.ChannelTransfer,
		payment.EwalletChannel(payment.Gopay),
		payment.EwalletChannel(payment.Ovo),
		payment.EwalletChannel(payment.Dana),
		payment.EwalletChannel(payment.Shopeepay),
	}, channels)
}

func TestAvailableChannelsPartialConfig(t *testing.T) {
	// only a gopay number: no transfer, exactly one e-wallet channel
	cfg := store.PaymentConfig{GopayNumber: "0812"}
	channels := payment.AvailableChannels(cfg)
	require.Equal(t, []payment.Channel{
		payment.ChannelCash,
		payment.EwalletChannel(payment.Gopay),
	}, channels)

	// incomplete bank triplet never offers transfer
	cfg = store.PaymentConfig{BankName: "BCA", BankAccountNumber: "123"}
	require.False(t, payment.Available(cfg, payment.ChannelTransfer))
}
