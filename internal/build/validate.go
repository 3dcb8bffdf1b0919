package build

import (
	"fmt"

	"github.com/sidx-engine/sidx/internal/index"
)

// ValidationError holds per-field validation failure messages for one
// forward.bin record.
type ValidationError struct {
	DocID  uint32
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("doc %d: %v", e.DocID, e.Fields)
}

// validateDocMeta enforces the length constraints spec.md §3 places on
// title and url: both are UTF-8 byte sequences no longer than 65535
// bytes. A record failing this is dropped from forward.bin rather
// than truncated, since silent truncation would corrupt the
// title/url a caller displays.
func validateDocMeta(m index.DocMeta) error {
	errs := make(map[string]string)
	if len(m.Title) > 65535 {
		errs["title"] = fmt.Sprintf("title exceeds %d bytes", 65535)
	}
	if len(m.URL) > 65535 {
		errs["url"] = fmt.Sprintf("url exceeds %d bytes", 65535)
	}
	if len(errs) > 0 {
		return &ValidationError{DocID: m.DocID, Fields: errs}
	}
	return nil
}
