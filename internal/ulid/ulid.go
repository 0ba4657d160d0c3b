// Package ulid wraps github.com/oklog/ulid/v2 with prefixed identifiers
// for export runs, settings and request tracing.
//
// IDs sort by creation time, which keeps the export history ordered by
// primary key alone.
package ulid

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the identifiers the application hands out
const (
	// PrefixRun marks export run IDs
	PrefixRun = "run"

	// PrefixRequest marks request IDs attached to log lines
	PrefixRequest = "req"

	// PrefixSetting marks persisted setting IDs
	PrefixSetting = "set"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// ULID wraps ulid.ULID with an optional prefix
type ULID struct {
	ulid.ULID
	prefix string
}

// Generate creates a new ULID with the current timestamp
func Generate() ULID {
	return NewWithTime(time.Now())
}

// GenerateWithPrefix creates a new ULID with the current timestamp and a prefix
func GenerateWithPrefix(prefix string) ULID {
	id := NewWithTime(time.Now())
	id.prefix = prefix
	return id
}

// NewWithTime creates a new ULID with a specific timestamp
func NewWithTime(t time.Time) ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ULID{ulid.MustNew(ulid.Timestamp(t), entropy), ""}
}

// Parse parses a plain or prefixed ULID string, e.g. "run-01AN4Z07BY79KA1307SR9X4MV3"
func Parse(id string) (ULID, error) {
	prefix, rawID, found := strings.Cut(id, PrefixSeparator)
	if !found {
		prefix, rawID = "", id
	}

	parsed, err := ulid.Parse(rawID)
	if err != nil {
		return ULID{}, fmt.Errorf("parsing ulid %q: %w", id, err)
	}

	return ULID{parsed, prefix}, nil
}

// Validate reports whether id is a plain or prefixed ULID
func Validate(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// IsZero returns true if the ULID is the zero value
func (u ULID) IsZero() bool {
	return u.ULID == ulid.ULID{}
}

// Prefix returns the prefix of the ULID
func (u ULID) Prefix() string {
	return u.prefix
}

// String returns "prefix-ulid", or the bare ULID when there is no prefix
func (u ULID) String() string {
	if u.prefix != "" {
		return u.prefix + PrefixSeparator + u.ULID.String()
	}
	return u.ULID.String()
}

// Time returns the timestamp component of the ULID
func (u ULID) Time() time.Time {
	return ulid.Time(u.ULID.Time())
}

// MarshalJSON implements the json.Marshaler interface
func (u ULID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (u *ULID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Value implements driver.Valuer; ULIDs are stored as strings
func (u ULID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Scan implements sql.Scanner
func (u *ULID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		parsed, err := Parse(src)
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(src))
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into ULID", src)
}

// RunID generates a new export run ID
func RunID() string {
	return GenerateWithPrefix(PrefixRun).String()
}

// RequestID generates a new request ID
func RequestID() string {
	return GenerateWithPrefix(PrefixRequest).String()
}

// SettingID generates a new setting ID
func SettingID() string {
	return GenerateWithPrefix(PrefixSetting).String()
}
