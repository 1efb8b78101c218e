package symbol

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistrySetGetCount(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 0, r.Count())

	info := &Info{Name: "MAIN.counter", DataType: "INT", Size: 2}
	r.Set(info.Name, info)

	got, ok := r.Get("MAIN.counter")
	require.True(t, ok)
	require.Equal(t, "INT", got.DataType)
	require.Equal(t, 1, r.Count())

	_, ok = r.Get("MAIN.missing")
	require.False(t, ok)
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Set("a", &Info{Name: "a"})
	all := r.All()
	delete(all, "a")
	_, ok := r.Get("a")
	require.True(t, ok, "mutating All()'s map must not touch the registry")
}

func TestNullTerminatedString(t *testing.T) {
	require.Equal(t, "abc", nullTerminatedString([]byte{'a', 'b', 'c', 0, 'x'}))
	require.Equal(t, "abc", nullTerminatedString([]byte("abc")))
	require.Equal(t, "", nullTerminatedString([]byte{0}))
	require.Equal(t, "", nullTerminatedString(nil))
}

func TestFindFieldWithOffsetFlat(t *testing.T) {
	fields := []StructField{
		{Name: "enable", DataType: "BOOL", Offset: 0, Size: 1},
		{Name: "setpoint", DataType: "REAL", Offset: 4, Size: 4},
	}
	f, off, err := findFieldWithOffset(fields, []string{"setpoint"}, 0)
	require.NoError(t, err)
	require.Equal(t, "REAL", f.DataType)
	require.Equal(t, uint32(4), off)
}

func TestFindFieldWithOffsetNested(t *testing.T) {
	fields := []StructField{
		{
			Name: "motor", DataType: "ST_Motor", Offset: 8, Size: 16,
			Fields: []StructField{
				{Name: "speed", DataType: "DINT", Offset: 4, Size: 4},
			},
		},
	}
	f, off, err := findFieldWithOffset(fields, []string{"motor", "speed"}, 0)
	require.NoError(t, err)
	require.Equal(t, "DINT", f.DataType)
	require.Equal(t, uint32(12), off, "nested offsets accumulate from the struct base")
}

func TestFindFieldWithOffsetMissing(t *testing.T) {
	fields := []StructField{{Name: "x", Offset: 0, Size: 4}}
	_, _, err := findFieldWithOffset(fields, []string{"y"}, 0)
	require.Error(t, err)

	_, _, err = findFieldWithOffset(fields, nil, 0)
	require.Error(t, err)
}

func TestExportSymbolsToJSON(t *testing.T) {
	s := &Session{registry: NewRegistry()}
	s.registry.Set("MAIN.counter", &Info{Name: "MAIN.counter", DataType: "INT", Size: 2, Handle: 5})

	path := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, s.ExportSymbolsToJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var infos []*Info
	require.NoError(t, json.Unmarshal(data, &infos))
	require.Len(t, infos, 1)
	require.Equal(t, "MAIN.counter", infos[0].Name)
	require.Equal(t, uint32(5), infos[0].Handle)
}
