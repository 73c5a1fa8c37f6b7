// Package money formatea importes para la vista (totales del carrito, recibos).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol prefijo monetario usado por el storefront (precios en USD).
const Symbol = "$"

var printer = message.NewPrinter(language.English)

// Format devuelve el importe con dos decimales y separador de miles: "$ 1,234.50".
func Format(d decimal.Decimal) string {
	return Symbol + " " + Plain(d)
}

// Plain devuelve el importe con dos decimales y separador de miles, sin símbolo.
func Plain(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// Fixed devuelve el importe como texto plano de dos decimales ("1234.50"), formato de intercambio.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
