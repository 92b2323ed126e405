// Package store exposes the read-only store settings snapshot the payment
// layer resolves channels against. Editing the settings belongs to the admin
// surface, which is outside this service.
package store

import "strings"

// PaymentConfig is the payment-relevant slice of a store's settings. A zero
// value means no non-cash channel is configured.
type PaymentConfig struct {
	BankName          string `json:"bankName"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankAccountHolder string `json:"bankAccountHolder"`
	GopayNumber       string `json:"gopayNumber"`
	OvoNumber         string `json:"ovoNumber"`
	DanaNumber        string `json:"danaNumber"`
	ShopeepayNumber   string `json:"shopeepayNumber"`
}

// HasBankTransfer reports whether the complete bank triplet is present.
func (c PaymentConfig) HasBankTransfer() bool {
	return strings.TrimSpace(c.BankName) != "" &&
		strings.TrimSpace(c.BankAccountNumber) != "" &&
		strings.TrimSpace(c.BankAccountHolder) != ""
}

// EwalletNumbers maps provider identifiers to their configured phone numbers.
// Providers without a number are omitted.
func (c PaymentConfig) EwalletNumbers() map[string]string {
	numbers := make(map[string]string, 4)
	for id, number := range map[string]string{
		"gopay":     c.GopayNumber,
		"ovo":       c.OvoNumber,
		"dana":      c.DanaNumber,
		"shopeepay": c.ShopeepayNumber,
	} {
		if strings.TrimSpace(number) != "" {
			numbers[id] = strings.TrimSpace(number)
		}
	}
	return numbers
}
