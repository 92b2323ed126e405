package payment

// Provider is the closed set of supported e-wallet providers. Adding a
// provider means adding a constant and a template entry, nothing else.
type Provider string

const (
	Gopay     Provider = "gopay"
	Ovo       Provider = "ovo"
	Dana      Provider = "dana"
	Shopeepay Provider = "shopeepay"
)

// Providers lists the supported providers in display order.
func Providers() []Provider {
	return []Provider{Gopay, Ovo, Dana, Shopeepay}
}

// deepLinkFormats maps each provider to its URI template. The %s placeholder
// receives the digit-only phone number.
var deepLinkFormats = map[Provider]string{
	Gopay:     "gopay://qr?phone=%s",
	Ovo:       "ovo://qr?phone=%s",
	Dana:      "dana://qr?phone=%s",
	Shopeepay: "shopeepay://qr?phone=%s",
}

// Known reports whether the provider is part of the supported set.
func (p Provider) Known() bool {
	_, ok := deepLinkFormats[p]
	return ok
}
