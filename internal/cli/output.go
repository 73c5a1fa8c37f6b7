package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stockText(stock int) string {
	if stock == entity.UnknownStock {
		return "-"
	}
	return fmt.Sprint(stock)
}

// writeCart imprime el carrito como tabla: una fila por ítem y el total al final.
func writeCart(w io.Writer, c *entity.Cart) error {
	if len(c.Items) == 0 {
		_, err := fmt.Fprintln(w, "Carrito vacío")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCTO\tCANTIDAD\tSTOCK\tPRECIO\tSUBTOTAL")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			it.ID, it.Product.Name, it.Quantity, stockText(it.Product.Stock),
			money.Format(it.Product.Price), money.Format(it.Subtotal()))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t\t%s\n", c.Count(), money.Format(c.Total))
	return tw.Flush()
}

func writeProducts(w io.Writer, pg *entity.ProductPage) error {
	if len(pg.Content) == 0 {
		_, err := fmt.Fprintln(w, "Sin resultados")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tMARCA\tPRECIO\tSTOCK")
	for _, p := range pg.Content {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, money.Format(p.Price), stockText(p.Stock))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "página %d de %d (%d productos)\n", pg.Number+1, max(pg.TotalPages, 1), pg.TotalElements)
	return err
}
