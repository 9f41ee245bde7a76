package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/knowledge"
)

// Unavailable is rendered for a missing price or stock.
const Unavailable = "No disponible"

// BuildContext renders one block per match, in the order given, separated by
// a blank line. No matches yield an empty context.
func BuildContext(matches []knowledge.Match) string {
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = renderMatch(m.Metadata)
	}
	return strings.Join(blocks, "\n\n")
}

func renderMatch(md map[string]string) string {
	return fmt.Sprintf("Producto: %s\nDescripción: %s\nCategoría: %s\nPrecio: %s\nStock: %s",
		md[catalog.KeyName],
		md[catalog.KeyDescription],
		md[catalog.KeyCategory],
		formatPrice(md[catalog.KeyPrice]),
		formatStock(md[catalog.KeyStock]),
	)
}

func formatPrice(price string) string {
	if price == "" {
		return Unavailable
	}
	return "$" + price
}

// A stock of zero renders the same as a missing stock.
func formatStock(stock string) string {
	if stock == "" {
		return Unavailable
	}
	if n, err := strconv.ParseFloat(stock, 64); err == nil && n == 0 {
		return Unavailable
	}
	return stock + " unidades"
}
