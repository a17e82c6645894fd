// Package parser ingests chat export documents into the canonical
// message log. Two shapes are accepted: a JSON array of message
// records and line-delimited JSON (one record per line). Records
// carry `date`, `author`, and `message` fields; `author` may be
// missing for system events.
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/chatlens/chatlens/internal/chatlog"
)

const (
	initialScanBufSize = 64 * 1024       // 64KB
	maxScanTokenSize   = 4 * 1024 * 1024 // 4MB per line
)

// timestampLayouts are tried in order when parsing message dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a message date string, returning the zero
// time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseExport parses a chat export document. The engine assumes
// but does not verify chronological order; records without a
// parseable timestamp are dropped (and counted) rather than
// failing the whole document.
func ParseExport(data []byte) (chatlog.Log, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty export document")
	}
	switch trimmed[0] {
	case '[':
		return parseArray(gjson.ParseBytes(trimmed))
	case '{':
		// Flat documents produced by the engine's own exporter
		// nest the raw log under "messages".
		nested := gjson.GetBytes(trimmed, "messages")
		if !nested.IsArray() {
			return parseLines(trimmed)
		}
		return parseArray(nested)
	default:
		return parseLines(trimmed)
	}
}

// parseArray handles the JSON-array export shape.
func parseArray(parsed gjson.Result) (chatlog.Log, error) {
	if !parsed.IsArray() {
		return nil, fmt.Errorf("export document is not a JSON array")
	}

	var msgs chatlog.Log
	dropped := 0
	parsed.ForEach(func(_, rec gjson.Result) bool {
		m, ok := parseRecord(rec)
		if !ok {
			dropped++
			return true
		}
		msgs = append(msgs, m)
		return true
	})

	if dropped > 0 {
		log.Printf("parser: dropped %d records without timestamps", dropped)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages parsed from export")
	}
	return msgs, nil
}

// parseLines handles the JSONL export shape.
func parseLines(data []byte) (chatlog.Log, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(
		make([]byte, 0, initialScanBufSize), maxScanTokenSize,
	)

	var msgs chatlog.Log
	dropped := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !gjson.Valid(line) {
			dropped++
			continue
		}
		m, ok := parseRecord(gjson.Parse(line))
		if !ok {
			dropped++
			continue
		}
		msgs = append(msgs, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning export lines: %w", err)
	}

	if dropped > 0 {
		log.Printf("parser: dropped %d unparseable lines", dropped)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages parsed from export")
	}
	return msgs, nil
}

// parseRecord extracts one message from a JSON record. Accepts
// `date` or `timestamp` for the instant and `message` or `text`
// for the body.
func parseRecord(rec gjson.Result) (chatlog.Message, bool) {
	ts := rec.Get("date").Str
	if ts == "" {
		ts = rec.Get("timestamp").Str
	}
	t := parseTimestamp(ts)
	if t.IsZero() {
		return chatlog.Message{}, false
	}

	text := rec.Get("message")
	if !text.Exists() {
		text = rec.Get("text")
	}

	return chatlog.Message{
		Timestamp: t,
		Author:    rec.Get("author").Str,
		Text:      text.Str,
	}, true
}
