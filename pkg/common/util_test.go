//
//  Copyright © Siteline Inc. All rights reserved.
//

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedup(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil input returns empty slice",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "no duplicates returned as-is",
			input:    []string{"P-100", "P-200", "P-300"},
			expected: []string{"P-100", "P-200", "P-300"},
		},
		{
			name:     "duplicates removed preserving first appearance",
			input:    []string{"P-100", "P-200", "P-100", "P-300", "P-200"},
			expected: []string{"P-100", "P-200", "P-300"},
		},
		{
			name:     "all duplicates collapse to one",
			input:    []string{"x", "x", "x"},
			expected: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedup(tt.input))
		})
	}
}

func TestResolutionError(t *testing.T) {
	err := NewError(ReasonNotFound, "template 42 not found")
	assert.Equal(t, "template 42 not found(code-NOTFOUND)", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(NewError(ReasonStorage, "io")))

	errf := NewErrorf(ReasonInvalidParam, "bad project code %q", "")
	assert.Equal(t, ReasonInvalidParam, errf.ReasonCode)
	assert.Contains(t, errf.Reason, `bad project code ""`)
}

func TestReasonCodeString(t *testing.T) {
	assert.Equal(t, "NOTFOUND", ReasonNotFound.String())
	assert.Equal(t, "INVALPARAM", ReasonInvalidParam.String())
	assert.Equal(t, "STORAGE", ReasonStorage.String())
	assert.Equal(t, "UNKNOWN", ReasonUnknown.String())
	assert.Equal(t, "UNKNOWN", ReasonCode(99).String())
}
