package primitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpressionValidator(t *testing.T) {
	var testCases = []struct {
		description   string
		source        string
		record        interface{}
		value         interface{}
		expectValid   bool
		expectMessage string
		expectError   bool
	}{
		{description: "valid", source: "value > 0", value: 3, expectValid: true},
		{description: "invalid", source: "value > 0", value: -1, expectMessage: "value > 0"},
		{description: "record access", source: "value <= record.Max", record: map[string]interface{}{"Max": 5}, value: 4, expectValid: true},
		{description: "membership", source: `value in ["a", "b"]`, value: "c", expectMessage: `value in ["a", "b"]`},
		{description: "not boolean", source: "1 + 1", expectError: true},
		{description: "syntax error", source: "value >", expectError: true},
	}
	for _, testCase := range testCases {
		validator, err := NewExpressionValidator(testCase.source)
		if testCase.expectError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		valid, message := validator(testCase.record, testCase.value)
		assert.Equal(t, testCase.expectValid, valid, testCase.description)
		assert.Equal(t, testCase.expectMessage, message, testCase.description)
	}
}

func TestNewExpressionModifier(t *testing.T) {
	modifier, err := NewExpressionModifier("value * 10")
	require.Nil(t, err)
	actual, err := modifier(nil, 2)
	require.Nil(t, err)
	assert.EqualValues(t, 20, actual)

	modifier, err = NewExpressionModifier(`value + "!"`)
	require.Nil(t, err)
	_, err = modifier(nil, []int{1})
	assert.NotNil(t, err)

	_, err = NewExpressionModifier("value *")
	assert.NotNil(t, err)
}

func TestConverter_Convert_Expressions(t *testing.T) {
	type Record struct {
		Quantity int    `primitize:"validate={value > 0 && value < 100}"`
		Code     string `primitize:"name=code,modify={upper(value)}"`
	}
	converter := New(WithRegistry(NewRegistry()))
	actual, err := converter.Convert(&Record{Quantity: 10, Code: "ab"})
	require.Nil(t, err)
	assert.EqualValues(t, map[string]interface{}{"Quantity": 10, "code": "AB"}, actual.Map())

	_, err = converter.Convert(&Record{Quantity: 100, Code: "ab"})
	require.NotNil(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "value > 0 && value < 100")
}

func TestConverter_Convert_InvalidExpression(t *testing.T) {
	type Record struct {
		Quantity int `primitize:"validate={value >}"`
	}
	_, err := New(WithRegistry(NewRegistry())).Convert(Record{})
	assert.NotNil(t, err)
}
