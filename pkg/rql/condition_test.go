package rql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		name string
		ids  IDs
		want string
	}{
		{name: "none", ids: None(), want: ""},
		{name: "empty list", ids: List(), want: ""},
		{name: "empty single", ids: One(""), want: ""},
		{name: "single", ids: One("s1"), want: " AND status.id = 's1'"},
		{name: "list of one", ids: List("s1"), want: " AND status.id IN ('s1')"},
		{name: "list", ids: List("s1", "s2", "s3"), want: " AND status.id IN ('s1', 's2', 's3')"},
		{name: "duplicates kept once", ids: List("s2", "s1", "s2"), want: " AND status.id IN ('s2', 's1')"},
		{name: "escaped", ids: One("o'brien"), want: " AND status.id = 'o''brien'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Condition(tc.ids, "AND status.id"))
		})
	}
}

func TestConditionNoneEqualsEmptyList(t *testing.T) {
	assert.Equal(t, Condition(None(), "AND x"), Condition(List(), "AND x"))
	assert.Equal(t, Condition(FromSlice(nil), "AND x"), Condition(FromSlice([]string{}), "AND x"))
}

func TestFromSlice(t *testing.T) {
	assert.Equal(t, " AND s = 'a'", Condition(FromSlice([]string{"a"}), "AND s"))
	assert.Equal(t, " AND s IN ('a', 'b')", Condition(FromSlice([]string{"a", "b"}), "AND s"))
}

func TestBuilder(t *testing.T) {
	q, err := Where("process.id", "p1").
		And("custom_fields.cf_konkurs_id", "c1").
		AndNot("status.id", "rej").
		AndIDs("status.id", None()).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "process.id = 'p1' AND custom_fields.cf_konkurs_id = 'c1' AND status.id != 'rej'", q)
}

func TestBuilderRejectsControlCharacters(t *testing.T) {
	_, err := Where("process.id", "p1").And("custom_fields.cf_userid", "u\n1").Build()
	assert.ErrorIs(t, err, ErrInvalidValue)
}
