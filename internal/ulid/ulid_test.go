package ulid

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	assert.False(t, id.IsZero(), "Generated ULID should not be zero")
	assert.Empty(t, id.Prefix())
	assert.WithinDuration(t, time.Now(), id.Time(), time.Second)
}

func TestGenerateWithPrefix(t *testing.T) {
	for _, prefix := range []string{PrefixRun, PrefixRequest, PrefixSetting, "custom"} {
		id := GenerateWithPrefix(prefix)

		assert.Equal(t, prefix, id.Prefix())
		assert.True(t, strings.HasPrefix(id.String(), prefix+PrefixSeparator))
	}
}

func TestParse(t *testing.T) {
	raw := Generate()
	parsed, err := Parse(raw.String())
	require.NoError(t, err)
	assert.Equal(t, raw, parsed)

	prefixed := GenerateWithPrefix(PrefixRun)
	parsed, err = Parse(prefixed.String())
	require.NoError(t, err)
	assert.Equal(t, PrefixRun, parsed.Prefix())
	assert.Equal(t, prefixed.String(), parsed.String())

	_, err = Parse("run-not-a-ulid")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(RunID()))
	assert.True(t, Validate(Generate().String()))
	assert.False(t, Validate("bogus"))
	assert.False(t, Validate(""))
}

func TestMonotonicOrder(t *testing.T) {
	now := time.Now()
	first := NewWithTime(now)
	second := NewWithTime(now)

	assert.Less(t, first.String(), second.String(), "IDs created within the same millisecond must still sort")
}

func TestJSON(t *testing.T) {
	id := GenerateWithPrefix(PrefixSetting)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var decoded ULID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id.String(), decoded.String())
}

func TestDatabaseRoundTrip(t *testing.T) {
	id := GenerateWithPrefix(PrefixRun)

	value, err := id.Value()
	require.NoError(t, err)
	assert.IsType(t, driver.Value(""), value)

	var scanned ULID
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, id.String(), scanned.String())

	require.NoError(t, scanned.Scan([]byte(id.String())))
	assert.Equal(t, id.String(), scanned.String())

	assert.Error(t, scanned.Scan(42))
}

func TestDomainIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(RunID(), PrefixRun+PrefixSeparator))
	assert.True(t, strings.HasPrefix(RequestID(), PrefixRequest+PrefixSeparator))
	assert.True(t, strings.HasPrefix(SettingID(), PrefixSetting+PrefixSeparator))
}
