package feed

import "strings"

// Kraken's REST API still uses legacy pair names for a few majors while the
// v2 WebSocket API uses slash notation.
var restSymbolOverrides = map[string]string{
	"BTC/USD": "XXBTZUSD",
	"ETH/USD": "XETHZUSD",
	"XRP/USD": "XXRPZUSD",
}

// RestSymbol translates a WebSocket pair name into the identifier the REST
// ticker endpoint expects: a fixed table for the special-cased majors, a
// slash-stripped uppercase transform for everything else.
func RestSymbol(wsSymbol string) string {
	if rest, ok := restSymbolOverrides[wsSymbol]; ok {
		return rest
	}
	return strings.ToUpper(strings.ReplaceAll(wsSymbol, "/", ""))
}
