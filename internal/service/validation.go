package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// requireFields reports every blank field, in name order.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: required: %s", domain.ErrValidation, strings.Join(missing, ", "))
}
