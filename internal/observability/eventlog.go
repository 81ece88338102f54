package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Event is one record from the metrics log. Events are treated as immutable
// once loaded; Payload is decoded from the raw data object at load time.
type Event struct {
	Timestamp  string
	MetricName string
	AgentName  string
	SessionID  string

	// Data is the raw data object exactly as it appeared in the log.
	Data json.RawMessage
	// Payload is the typed view of Data selected by MetricName.
	Payload Payload
	// Value is the generic data.value sample used by trend analysis.
	Value float64
}

// envelope is the on-disk shape of an event line.
type envelope struct {
	Timestamp  string          `json:"timestamp"`
	MetricName string          `json:"metric_name"`
	AgentName  string          `json:"agent_name,omitempty"`
	SessionID  string          `json:"session_id,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON encodes the event in its log line shape.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Timestamp:  e.Timestamp,
		MetricName: e.MetricName,
		AgentName:  e.AgentName,
		SessionID:  e.SessionID,
		Data:       e.Data,
	})
}

// NewEvent builds an event from a data mapping and decodes its payload the
// same way the loader does.
func NewEvent(timestamp, metricName, agentName, sessionID string, data map[string]any) (Event, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("marshalling event data: %w", err)
		}
		raw = b
	}
	e := Event{
		Timestamp:  timestamp,
		MetricName: metricName,
		AgentName:  agentName,
		SessionID:  sessionID,
		Data:       raw,
	}
	var err error
	e.Payload, e.Value, err = decodePayload(metricName, raw)
	if err != nil {
		return e, fmt.Errorf("decoding %s payload: %w", metricName, err)
	}
	return e, nil
}

// errNotObject rejects lines that are valid JSON but not a record.
var errNotObject = errors.New("record is not a JSON object")

// decodeEvent parses one log line. A non-nil payloadErr means the record was
// kept but some data fields had unexpected types and were left zero.
func decodeEvent(line []byte) (e Event, payloadErr error, err error) {
	if len(line) == 0 || line[0] != '{' {
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			return Event{}, nil, err
		}
		return Event{}, nil, errNotObject
	}
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Event{}, nil, err
	}
	e = Event{
		Timestamp:  env.Timestamp,
		MetricName: env.MetricName,
		AgentName:  env.AgentName,
		SessionID:  env.SessionID,
		Data:       env.Data,
	}
	e.Payload, e.Value, payloadErr = decodePayload(env.MetricName, env.Data)
	return e, payloadErr, nil
}

// WarningKind classifies a non-fatal load problem.
type WarningKind string

const (
	// WarningMalformedRecord means the line was not a valid JSON record and was skipped.
	WarningMalformedRecord WarningKind = "malformed_record"
	// WarningInvalidPayload means the record was kept but its data could not be typed.
	WarningInvalidPayload WarningKind = "invalid_payload"
)

// LoadWarning describes one skipped or degraded line.
type LoadWarning struct {
	Line int
	Kind WarningKind
	Err  error
}

func (w LoadWarning) String() string {
	switch w.Kind {
	case WarningInvalidPayload:
		return fmt.Sprintf("line %d: ignoring data with unexpected field types: %v", w.Line, w.Err)
	default:
		return fmt.Sprintf("line %d: skipping malformed JSON line: %v", w.Line, w.Err)
	}
}

// LoadResult is the outcome of reading the event log.
type LoadResult struct {
	// Events preserves file order.
	Events []Event
	// Missing reports that the log file does not exist yet.
	Missing  bool
	Warnings []LoadWarning
}

// EventLog reads and appends metric events.
type EventLog interface {
	Load() (*LoadResult, error)
	Append(event Event) error
	Path() string
}

// jsonlEventLog implements EventLog over an append-only JSONL file.
type jsonlEventLog struct {
	path string
	mu   sync.Mutex
}

// NewJSONLEventLog creates an EventLog backed by the JSONL file at path.
// The file is not touched until Load or Append is called.
func NewJSONLEventLog(path string) EventLog {
	return &jsonlEventLog{path: path}
}

func (l *jsonlEventLog) Path() string {
	return l.path
}

// Load reads the whole log. A missing file yields an empty result with
// Missing set; malformed lines are skipped and reported as warnings.
func (l *jsonlEventLog) Load() (*LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Missing: true}, nil
		}
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	result := &LoadResult{}
	reader := bufio.NewReader(f)
	lineNo := 0
	for {
		raw, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading event log: %w", readErr)
		}
		if len(raw) > 0 {
			lineNo++
			l.decodeLine(result, lineNo, bytes.TrimSpace(raw))
		}
		if readErr != nil {
			break
		}
	}

	return result, nil
}

// decodeLine appends the event on one line to result, or a warning when the
// line cannot be used. Blank lines are ignored.
func (l *jsonlEventLog) decodeLine(result *LoadResult, lineNo int, line []byte) {
	if len(line) == 0 {
		return
	}

	event, payloadErr, err := decodeEvent(line)
	if err != nil {
		result.Warnings = append(result.Warnings, LoadWarning{Line: lineNo, Kind: WarningMalformedRecord, Err: err})
		return
	}
	if payloadErr != nil {
		result.Warnings = append(result.Warnings, LoadWarning{Line: lineNo, Kind: WarningInvalidPayload, Err: payloadErr})
	}
	result.Events = append(result.Events, event)
}

// Append writes the event as a single JSON line, creating the file and its
// parent directories if needed.
func (l *jsonlEventLog) Append(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writeLocked(f, data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}
