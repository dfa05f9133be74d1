package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

func TestWriteText(t *testing.T) {
	res := comparePeople(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, res, Options{Breadcrumbs: NewBreadcrumbFormatter(nil)}))
	assert.Equal(t, `format.person > Home Address > Post code:
- A
+ B
format.person > Home Address > Street Name:
- x
+ y
format.person > Tags:
- a
format.person > Tags:
+ b
`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, "", res, Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[1mformat.person > HomeAddress > Post code:\x1b[0m\n")
	assert.Contains(t, buf.String(), "\x1b[31m- A\x1b[0m\n")
	assert.Contains(t, buf.String(), "\x1b[32m+ B\x1b[0m\n")
}

func TestWriteTextMultiline(t *testing.T) {
	type doc struct {
		Body string
	}
	res := compareDocs(t, doc{"one\ntwo\nthree"}, doc{"one\n2\nthree"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, res, Options{}))
	assert.Equal(t, "format.doc > Body:\n@@ line 2\n- two\n+ 2\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	res := comparePeople(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Table, res, Options{Breadcrumbs: NewBreadcrumbFormatter(nil)}))
	out := buf.String()
	for _, s := range []string{"CHANGE", "PATH", "UPDATE", "DELETE", "INSERT", "format.person > Home Address > Street Name"} {
		assert.Contains(t, out, s)
	}
}

func TestWriteJSON(t *testing.T) {
	res := comparePeople(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, res, Options{}))

	var decoded struct {
		Type    string `json:"type"`
		IsMatch bool   `json:"isMatch"`
		Deltas  []struct {
			ChangeType string `json:"changeType"`
			Breadcrumb struct {
				Path   string `json:"path"`
				Member string `json:"member"`
			} `json:"breadcrumb"`
			OldValue interface{} `json:"oldValue"`
			NewValue interface{} `json:"newValue"`
		} `json:"deltas"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "*format.person", decoded.Type)
	assert.False(t, decoded.IsMatch)
	require.Len(t, decoded.Deltas, 4)
	assert.Equal(t, "update", decoded.Deltas[0].ChangeType)
	assert.Equal(t, "PostCode", decoded.Deltas[0].Breadcrumb.Member)
	assert.Equal(t, "A", decoded.Deltas[0].OldValue)
	assert.Equal(t, "delete", decoded.Deltas[2].ChangeType)
	assert.Equal(t, "Tags", decoded.Deltas[2].Breadcrumb.Member)
	assert.Nil(t, decoded.Deltas[2].NewValue)
}

func TestWriteYAML(t *testing.T) {
	res := comparePeople(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, res, Options{}))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["isMatch"])
	deltas, ok := decoded["deltas"].([]interface{})
	require.True(t, ok)
	require.Len(t, deltas, 4)
	last := deltas[3].(map[interface{}]interface{})
	assert.Equal(t, "insert", last["changeType"])
	assert.Equal(t, "b", last["newValue"])
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", comparePeople(t), Options{})
	assert.Equal(t, ErrUnknownFormat, errors.Cause(err))
}

func TestWriteSimple(t *testing.T) {
	simple := comparePeople(t).Simple()

	var buf bytes.Buffer
	require.NoError(t, WriteSimple(&buf, Text, simple, Options{}))
	assert.Equal(t, `format.person > HomeAddress > Post code:
- A
+ B
format.person > HomeAddress > StreetName:
- x
+ y
format.person > Tags:
- a
format.person > Tags:
+ b
`, buf.String())

	buf.Reset()
	require.NoError(t, WriteSimple(&buf, Table, simple, Options{}))
	assert.Contains(t, buf.String(), "format.person > HomeAddress > StreetName")

	var fromResult, fromSimple bytes.Buffer
	require.NoError(t, Write(&fromResult, JSON, comparePeople(t), Options{}))
	require.NoError(t, WriteSimple(&fromSimple, JSON, simple, Options{}))
	assert.JSONEq(t, fromResult.String(), fromSimple.String())

	err := WriteSimple(&buf, "xml", simple, Options{})
	assert.Equal(t, ErrUnknownFormat, errors.Cause(err))
}
