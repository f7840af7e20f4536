package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

// WriteJSON writes the documents as an indented JSON array. Non-ASCII text
// is written as is.
func WriteJSON(out io.Writer, docs []models.Document) error {
	if docs == nil {
		docs = []models.Document{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
