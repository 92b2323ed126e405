package payment

import (
	"fmt"
	"strings"

	"github.com/noah-isme/backend-kasir/internal/store"
)

// BankTransferBlock renders the bank transfer payload: bank name, account
// number, account holder, one per line, in that fixed order. The block is
// both encoded into a scannable code and shown verbatim for manual copy.
func BankTransferBlock(cfg store.PaymentConfig) string {
	return strings.Join([]string{
		cfg.BankName,
		cfg.BankAccountNumber,
		cfg.BankAccountHolder,
	}, "\n")
}

// DeepLink builds the provider-specific URI for a raw phone number. Every
// non-digit character is stripped before substitution. An unknown provider
// yields an empty payload, which callers treat as nothing to render.
func DeepLink(p Provider, rawPhone string) string {
	format, ok := deepLinkFormats[p]
	if !ok {
		return ""
	}
	return fmt.Sprintf(format, digitsOnly(rawPhone))
}

// PayloadFor resolves the payload string for a channel against the store
// settings. Cash has no payload. The result is empty when the channel's
// source fields are missing.
func PayloadFor(cfg store.PaymentConfig, c Channel) string {
	switch c {
	case ChannelCash:
		return ""
	case ChannelTransfer:
		if !cfg.HasBankTransfer() {
			return ""
		}
		return BankTransferBlock(cfg)
	}
	p, ok := c.Ewallet()
	if !ok {
		return ""
	}
	number, configured := cfg.EwalletNumbers()[string(p)]
	if !configured {
		return ""
	}
	return DeepLink(p, number)
}

func digitsOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
