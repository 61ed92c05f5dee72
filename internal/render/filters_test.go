package render

import (
	"testing"

	"github.com/osteele/liquid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesno(true, ""))
	assert.Equal(t, "no", yesno(false, ""))
	assert.Equal(t, "maybe", yesno(nil, ""))
	assert.Equal(t, "True", yesno(true, "True,False"))
	assert.Equal(t, "False", yesno(nil, "True,False"))
	assert.Equal(t, "on", yesno("x", "on,off"))
	assert.Equal(t, "off", yesno(0, "on,off"))
	assert.Equal(t, "true", yesno(true, "single"))
}

func TestUnixTime(t *testing.T) {
	assert.Equal(t, "2024-01-02 03:04:05.500000 UTC", unixTime(1704164645.5))
	assert.Equal(t, "1970-01-01 00:00:00.000000 UTC", unixTime(0))
	assert.Equal(t, "2024-01-02 03:04:05.000000 UTC", unixTime("1704164645"))
	assert.Equal(t, "soon", unixTime("soon"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "", pluralize(1, ""))
	assert.Equal(t, "s", pluralize(2, ""))
	assert.Equal(t, "s", pluralize(0, ""))
	assert.Equal(t, "y", pluralize(1, "y,ies"))
	assert.Equal(t, "ies", pluralize(3, "y,ies"))
	assert.Equal(t, "people", pluralize(234, "person,people"))
	assert.Equal(t, "es", pluralize([]any{1, 2}, "es"))
}

func TestToJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, toJSON(map[string]int{"a": 1}))
	assert.Equal(t, "null", toJSON(func() {}))
}

func TestFiltersRegistered(t *testing.T) {
	e := liquid.NewEngine()
	registerFilters(e)

	out, err := e.ParseAndRenderString(
		`{{ ok | yesno: "Y,N" }} {{ n | pluralize: "s" }} {{ m | json }}`,
		map[string]any{"ok": true, "n": 2, "m": map[string]any{"k": "v"}},
	)
	require.NoError(t, err)
	assert.Equal(t, `Y s {"k":"v"}`, out)
}
