package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Date
		out  string
	}{
		{"plain date", `"2024-03-05"`, NewDate(2024, time.March, 5), `"2024-03-05"`},
		{"single digit month and day", `"2024-3-5"`, NewDate(2024, time.March, 5), `"2024-03-05"`},
		{"timestamp is truncated", `"2024-03-05T23:30:00Z"`, NewDate(2024, time.March, 5), `"2024-03-05"`},
		{"offset timestamp uses the UTC day", `"2024-03-05T22:30:00-05:00"`, NewDate(2024, time.March, 6), `"2024-03-06"`},
		{"null", `null`, Date{}, `null`},
		{"empty string", `""`, Date{}, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d)

			out, err := json.Marshal(d)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(out))
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"05/03/2024"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`20240305`), &d))
	})
}

func TestDateBSON(t *testing.T) {
	d := NewDate(2024, time.January, 9)

	typ, data, err := d.MarshalBSONValue()
	require.NoError(t, err)
	assert.Equal(t, bsontype.String, typ)

	var got Date
	require.NoError(t, got.UnmarshalBSONValue(typ, data))
	assert.Equal(t, d, got)
	assert.Equal(t, "2024-01-09", bson.RawValue{Type: typ, Value: data}.StringValue())

	t.Run("datetime", func(t *testing.T) {
		typ, data, err := bson.MarshalValue(time.Date(2024, 1, 9, 18, 45, 0, 0, time.UTC))
		require.NoError(t, err)
		var got Date
		require.NoError(t, got.UnmarshalBSONValue(typ, data))
		assert.Equal(t, d, got)
	})

	t.Run("null and empty", func(t *testing.T) {
		got := d
		require.NoError(t, got.UnmarshalBSONValue(bsontype.Null, nil))
		assert.True(t, got.IsZero())

		typ, data, err := Date{}.MarshalBSONValue()
		require.NoError(t, err)
		got = d
		require.NoError(t, got.UnmarshalBSONValue(typ, data))
		assert.True(t, got.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		typ, data, err := bson.MarshalValue(int32(20240109))
		require.NoError(t, err)
		var got Date
		assert.Error(t, got.UnmarshalBSONValue(typ, data))
	})
}

func TestDateSQL(t *testing.T) {
	d := NewDate(2024, time.February, 3)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	tests := []struct {
		name string
		src  interface{}
		want Date
	}{
		{"time", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), d},
		{"string", "2024-02-03", d},
		{"timestamp string", "2024-02-03 00:00:00+00:00", d},
		{"bytes", []byte("2024-02-03"), d},
		{"nil", nil, Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDate(1999, time.December, 31)
			require.NoError(t, got.Scan(tt.src))
			assert.Equal(t, tt.want, got)
		})
	}

	var got Date
	assert.Error(t, got.Scan(int64(20240203)))
}

func TestDateOrdering(t *testing.T) {
	early := MustParseDate("2024-1-9")
	late := MustParseDate("2024-01-10")

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.Less(t, early.String(), late.String())
}
