package assertion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestResolvePath(t *testing.T) {
	body := decodeJSON(t, `{"a": {"b": [10, 20, 30]}, "name": "x", "items": []}`)

	tests := []struct {
		name    string
		path    string
		want    any
		wantErr bool
	}{
		{name: "empty path returns root", path: "", want: body},
		{name: "nested key", path: "name", want: "x"},
		{name: "array index", path: "a.b.1", want: float64(20)},
		{name: "first element", path: "a.b.0", want: float64(10)},
		{name: "missing key", path: "a.c", wantErr: true},
		{name: "index out of range", path: "a.b.3", wantErr: true},
		{name: "negative index", path: "a.b.-1", wantErr: true},
		{name: "non-numeric segment on array", path: "a.b.x", wantErr: true},
		{name: "descend into scalar", path: "name.x", wantErr: true},
		{name: "index into empty array", path: "items.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(body, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				var pathErr *PathError
				assert.ErrorAs(t, err, &pathErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePathRootArray(t *testing.T) {
	body := decodeJSON(t, `[{"id": 1}, {"id": 2}]`)

	got, err := resolvePath(body, "1.id")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)
}
