package primitize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format/text"
)

func TestRegistry_Declare(t *testing.T) {
	type Base struct {
		ID int
	}
	type Record struct {
		Base
		Name   string
		secret string
	}
	var testCases = []struct {
		description string
		record      interface{}
		specs       []*Spec
		expectError bool
	}{
		{description: "value", record: Record{}, specs: []*Spec{Describe("Name", WithRename("n"))}},
		{description: "pointer", record: &Record{}, specs: []*Spec{Describe("Name")}},
		{description: "reflect type", record: reflect.TypeOf(Record{}), specs: []*Spec{Describe("Name")}},
		{description: "promoted field", record: Record{}, specs: []*Spec{Describe("ID", WithRename("id"))}},
		{description: "nil spec", record: Record{}, specs: []*Spec{nil}},
		{description: "unknown field", record: Record{}, specs: []*Spec{Describe("Missing")}, expectError: true},
		{description: "unexported field", record: Record{}, specs: []*Spec{Describe("secret")}, expectError: true},
		{description: "not a struct", record: 1, specs: []*Spec{Describe("Name")}, expectError: true},
		{description: "nil record", record: nil, expectError: true},
	}
	for _, testCase := range testCases {
		err := NewRegistry().Declare(testCase.record, testCase.specs...)
		if testCase.expectError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		assert.Nil(t, err, testCase.description)
	}
}

func TestRegistry_Declare_Merge(t *testing.T) {
	type Record struct {
		Name string
		Note string
	}
	registry := NewRegistry()
	require.Nil(t, registry.Declare(Record{}, Describe("Name", WithRename("n"))))
	converter := New(WithRegistry(registry))
	actual, err := converter.Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.Equal(t, []string{"n", "Note"}, actual.Keys())

	require.Nil(t, registry.Declare(&Record{}, Describe("Name", WithUnsetIfEmpty()), Describe("Note", WithIgnore())))
	actual, err = converter.Convert(Record{})
	require.Nil(t, err)
	assert.Equal(t, 0, actual.Len())

	actual, err = converter.Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.Equal(t, []string{"n"}, actual.Keys())
}

func TestRegistry_Type(t *testing.T) {
	type Record struct {
		ID      int    `primitize:"name=id"`
		Skipped string `primitize:"-"`
		Output  string `primitize:"writer=sink"`
		Label   string
	}
	registry := NewRegistry()
	registry.RegisterWriter("sink", func(record interface{}, value interface{}) error { return nil })
	aType, err := registry.Type(reflect.TypeOf(&Record{}), TagName, text.CaseFormatUndefined)
	require.Nil(t, err)
	assert.Equal(t, reflect.TypeOf(Record{}), aType.Type())
	assert.Equal(t, []string{"ID", "Output", "Label"}, aType.Names())
	assert.Equal(t, []string{"id", "Label"}, aType.Keys())
	assert.True(t, aType.Lookup("Output").HasWriter())
	assert.Nil(t, aType.Lookup("Skipped"))

	cached, err := registry.Type(reflect.TypeOf(Record{}), TagName, text.CaseFormatUndefined)
	require.Nil(t, err)
	assert.Same(t, aType, cached)

	_, err = registry.Type(reflect.TypeOf(""), TagName, text.CaseFormatUndefined)
	assert.NotNil(t, err)
}

func TestRegistry_NamedHooks(t *testing.T) {
	type Record struct {
		Name  string `primitize:"modifier=upper,validator=required"`
		Audit string `primitize:"writer=audit"`
	}
	var audited []interface{}
	registry := NewRegistry()
	registry.RegisterModifier("upper", func(record interface{}, value interface{}) (interface{}, error) {
		return strings.ToUpper(value.(string)), nil
	})
	registry.RegisterValidator("required", func(record interface{}, value interface{}) (bool, string) {
		return value != "", "is required"
	})
	registry.RegisterWriter("audit", func(record interface{}, value interface{}) error {
		audited = append(audited, value)
		return nil
	})
	converter := New(WithRegistry(registry))

	actual, err := converter.Convert(&Record{Name: "abc", Audit: "created"})
	require.Nil(t, err)
	assert.EqualValues(t, map[string]interface{}{"Name": "ABC"}, actual.Map())
	assert.Equal(t, []interface{}{"created"}, audited)

	_, err = converter.Convert(&Record{})
	assert.True(t, IsValidationError(err))
}

func TestRegistry_UnknownNamedHook(t *testing.T) {
	type Record struct {
		Name string `primitize:"modifier=missing"`
	}
	_, err := New(WithRegistry(NewRegistry())).Convert(Record{})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown modifier")
}

func TestRegistry_DeclarationOverridesTag(t *testing.T) {
	type Record struct {
		Name string `primitize:"name=label,unsetIfEmpty"`
	}
	registry := NewRegistry()
	require.Nil(t, registry.Declare(Record{}, Describe("Name", WithRename("title"))))
	actual, err := New(WithRegistry(registry)).Convert(Record{})
	require.Nil(t, err)
	assert.Equal(t, 0, actual.Len())
	actual, err = New(WithRegistry(registry)).Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.Equal(t, []string{"title"}, actual.Keys())
}

func TestRegistry_CustomTagName(t *testing.T) {
	type Record struct {
		Name string `out:"name=n" primitize:"name=p"`
	}
	registry := NewRegistry()
	actual, err := New(WithRegistry(registry), WithTagName("out")).Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.Equal(t, []string{"n"}, actual.Keys())
	actual, err = New(WithRegistry(registry)).Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.Equal(t, []string{"p"}, actual.Keys())
}

func TestDeclare_DefaultRegistry(t *testing.T) {
	type Record struct {
		Name string
	}
	MustDeclare(Record{}, Describe("Name", WithRename("name")))
	actual, err := Convert(Record{Name: "x"})
	require.Nil(t, err)
	assert.EqualValues(t, map[string]interface{}{"name": "x"}, actual.Map())
	assert.Panics(t, func() {
		MustDeclare(Record{}, Describe("Missing"))
	})
	assert.NotNil(t, DefaultRegistry())
}

func TestConverter_Type(t *testing.T) {
	type Record struct {
		FirstName string
		Hidden    string `primitize:"-"`
	}
	converter := New(WithRegistry(NewRegistry()), WithCaseFormat(text.CaseFormatLowerCamel))
	aType, err := converter.Type(&Record{})
	require.Nil(t, err)
	assert.Equal(t, []string{"firstName"}, aType.Keys())
	assert.NotNil(t, aType.Lookup("FirstName"))

	_, err = converter.Type(nil)
	assert.NotNil(t, err)
}
