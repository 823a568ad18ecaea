package rows

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// Normalized is one fetched record after postprocessing: the canonical
// device id, the cleaned batch, the parsed test date and the tagged,
// per-kind typed payload. Exactly one of the payload pointers is non-nil,
// selected by Kind (and table identity for the kind-internal variants).
type Normalized struct {
	DeviceID       string
	Batch          string
	TestDate       *time.Time
	Kind           testreport.TestKind
	Table          string
	Workorder      *int64
	WorkorderTitle string

	ATP         *ATP
	ATPGen2     *ATPGen2
	ITPOmniTrac *ITPOmniTrac
	ITPGen2     *ITPGen2
	Leak        *Leak
}

var batchTokenRe = regexp.MustCompile(`^(#\d{8}_\d{2})`)

// CleanBatch truncates a composite batch value to its leading #YYYYMMDD_NN
// token. Values without the token pass through unchanged, so the operation
// is idempotent on already-clean tokens.
func CleanBatch(batch string) string {
	if m := batchTokenRe.FindStringSubmatch(batch); m != nil {
		return m[1]
	}
	return batch
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp defensively converts the representations a tabular
// timestamp value arrives as: a native time, a plain string, a string with
// a trailing timezone label, or a wrapped {value: ...} envelope.
func ParseTimestamp(v any) (time.Time, bool) {
	switch value := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return value.UTC(), true
	case map[string]any:
		inner, ok := value["value"]
		if !ok {
			return time.Time{}, false
		}
		return ParseTimestamp(inner)
	case []byte:
		return parseTimestampString(string(value))
	case string:
		return parseTimestampString(value)
	}
	return time.Time{}, false
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), " UTC"))
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// asString renders a driver-level value for display or comparison.
func asString(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, true
	case []byte:
		return string(value), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case bool:
		return strconv.FormatBool(value), true
	}
	return "", false
}

func asInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		return int64(value), true
	case []byte:
		n, err := strconv.ParseInt(string(value), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(value, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Normalize converts one raw fetched record into a Normalized row. It is a
// pure transformation of the input map; the raw record is not mutated.
//
// An unparseable test date yields an absent date (logged), not an error.
// A record whose payload cannot be decoded into the table's typed shape is
// an error; callers drop the row and keep the fan-out alive.
func Normalize(ctx context.Context, desc TableDescriptor, raw map[string]any) (Normalized, error) {
	log := logger.FromCtx(ctx)

	n := Normalized{
		Kind:  desc.Kind,
		Table: desc.Table,
	}

	if id, ok := asString(raw[desc.IDColumn]); ok {
		n.DeviceID = id
	}

	if batch, ok := asString(raw[desc.BatchColumn]); ok {
		// The ATP Gen 2 table carries a long composite run suffix; the
		// workorder-title columns carry a trailing " - ..." annotation.
		// Both truncate to the leading batch token.
		if desc.Table == TableATPGen2 || desc.BatchColumn == "workorder_title" {
			batch = CleanBatch(batch)
		}
		n.Batch = batch
	}

	if rawDate, ok := raw[desc.DateColumn]; ok && rawDate != nil {
		if ts, ok := ParseTimestamp(rawDate); ok {
			n.TestDate = &ts
		} else {
			log.Warnf("unparseable %s value %v in table %s", desc.DateColumn, rawDate, desc.Table)
		}
	}

	if desc.HasWorkorder() {
		if num, ok := asInt64(raw[desc.WorkorderColumn]); ok {
			n.Workorder = &num
		}
	}
	if title, ok := asString(raw["workorder_title"]); ok {
		n.WorkorderTitle = title
	}

	if err := n.decodePayload(raw); err != nil {
		return Normalized{}, ErrDecode{Table: desc.Table, Err: err}
	}
	return n, nil
}
