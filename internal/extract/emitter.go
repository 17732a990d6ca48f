package extract

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tonimelisma/notion-go/internal/notion"
)

// Emitter receives extracted records stream by stream. Records are handed
// over one at a time and never retained by the engine.
type Emitter interface {
	Emit(stream string, rec notion.Record) error
}

// envelope is the NDJSON line shape written by NDJSONEmitter.
type envelope struct {
	Stream string        `json:"stream"`
	Record notion.Record `json:"record"`
}

// NDJSONEmitter writes each record as one JSON object per line, tagged
// with its stream name, suitable for piping into a downstream loader.
type NDJSONEmitter struct {
	enc *json.Encoder
}

// NewNDJSONEmitter creates an emitter writing to w (typically stdout).
func NewNDJSONEmitter(w io.Writer) *NDJSONEmitter {
	return &NDJSONEmitter{enc: json.NewEncoder(w)}
}

// Emit implements Emitter.
func (e *NDJSONEmitter) Emit(stream string, rec notion.Record) error {
	if err := e.enc.Encode(envelope{Stream: stream, Record: rec}); err != nil {
		return fmt.Errorf("extract: writing record: %w", err)
	}

	return nil
}
