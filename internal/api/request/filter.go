package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/edvin/kitcatalog/internal/model"
)

// ParseProductFilter reads the optional active and category query
// parameters.
func ParseProductFilter(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()
	filter := model.ProductFilter{Category: strings.TrimSpace(q.Get("category"))}

	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid active filter %q", raw)
		}
		filter.Active = &active
	}
	return filter, nil
}
