package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertShellOutputs(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single line", "smartctl 7.2", []string{"smartctl 7.2"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"carriage returns", "a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ConvertShellOutputs(tc.input))
		})
	}
}

func TestGetAllIndex(t *testing.T) {
	assert.Equal(t, []int{1, 3}, GetAllIndex("a\nb\nc", "\n"))
	assert.Nil(t, GetAllIndex("abc", "\n"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"loop", "nvme"}, SplitList(" loop, nvme,,loop "))
	assert.Nil(t, SplitList(""))
}

func TestPrettyPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := PrettyPrintJSON(&buf, map[string]int{"a": 1})
	assert.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", buf.String())
}
