package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatlens/chatlens/internal/chatlog"
)

// ExportDocument is the one on-disk/transferable format the engine
// supports: export timestamp, scalar stats, the raw message log,
// and the full chart bundle. Chart-series numbers round-trip
// losslessly.
type ExportDocument struct {
	ExportedAt time.Time   `json:"export_date"`
	Stats      Stats       `json:"statistics"`
	Messages   chatlog.Log `json:"messages"`
	Charts     Charts      `json:"charts"`
}

// Export serializes a bundle plus its raw log as the flat export
// document.
func Export(bundle Bundle, log chatlog.Log, now time.Time) ([]byte, error) {
	doc := ExportDocument{
		ExportedAt: now,
		Stats:      bundle.Stats,
		Messages:   log,
		Charts:     bundle.Charts,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}
	return data, nil
}

// ParseExportDocument reads back a flat export document.
func ParseExportDocument(data []byte) (ExportDocument, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ExportDocument{}, fmt.Errorf(
			"decoding export document: %w", err,
		)
	}
	return doc, nil
}
