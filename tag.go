package primitize

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
	"github.com/viant/tagly/format"
)

const (
	//TagName defines default field tag name
	TagName = "primitize"

	//PresenceMarkerTag defines presence marker tag
	PresenceMarkerTag = "presenceMarker"

	setMarkerTag = "setMarker"

	legacyTagFragment = "presence=true"
)

const (
	comaTerminatorToken = iota
	eqTerminatorToken
	scopeBlockToken
)

var (
	comaTerminatorMatcher = parsly.NewToken(comaTerminatorToken, "coma", matcher.NewTerminator(',', true))
	eqTerminatorMatcher   = parsly.NewToken(eqTerminatorToken, "=", matcher.NewTerminator('=', true))
	scopeBlockMatcher     = parsly.NewToken(scopeBlockToken, "{ .... }", matcher.NewBlock('{', '}', '\\'))
)

// Tag represents field tag
type Tag struct {
	Name         string
	UnsetIfEmpty bool
	Ignore       bool

	Modifier  string
	Validator string
	Writer    string

	Validate string
	Modify   string
}

func (t *Tag) update(key string, value string) error {
	switch strings.ToLower(key) {
	case "name", "rename":
		t.Name = value
	case "unsetifempty", "omitempty":
		t.UnsetIfEmpty = true
	case "ignore", "-", "transient":
		t.Ignore = true
	case "modifier":
		t.Modifier = value
	case "validator":
		t.Validator = value
	case "writer":
		t.Writer = value
	case "validate":
		t.Validate = value
	case "modify":
		t.Modify = value
	default:
		return fmt.Errorf("unknown key: %v", key)
	}
	return nil
}

// IsDefined returns true if any setting was supplied
func (t *Tag) IsDefined() bool {
	return *t != Tag{}
}

// ParseTag parses tag with supplied name
func ParseTag(tag reflect.StructTag, tagName string) (*Tag, error) {
	ret := &Tag{}
	if tagName == "" {
		tagName = TagName
	}
	encoded, ok := tag.Lookup(tagName)
	if !ok || encoded == "" {
		return ret, nil
	}
	if encoded == "-" {
		ret.Ignore = true
		return ret, nil
	}
	cursor := parsly.NewCursor("", []byte(encoded), 0)
	for cursor.Pos < len(cursor.Input) {
		pos := cursor.Pos
		key, value := matchPair(cursor)
		if key != "" {
			if err := ret.update(key, value); err != nil {
				return nil, fmt.Errorf("invalid %v tag %q: %w", tagName, encoded, err)
			}
		}
		if cursor.Pos == pos {
			break
		}
	}
	return ret, nil
}

// ResolveTag parses field tag, format tag name, case and omitempty apply when not set by the field tag
func ResolveTag(field reflect.StructField, tagName string) (*Tag, error) {
	ret, err := ParseTag(field.Tag, tagName)
	if err != nil {
		return nil, err
	}
	fTag, err := format.Parse(field.Tag)
	if err != nil || fTag == nil {
		return ret, nil
	}
	if ret.Name == "" && (fTag.Name != "" || fTag.CaseFormat != "") {
		aTag := &format.Tag{Name: fTag.Name, CaseFormat: fTag.CaseFormat}
		if aTag.Name == "" {
			aTag.Name = field.Name
		}
		ret.Name = aTag.CaseFormatName("")
	}
	ret.UnsetIfEmpty = ret.UnsetIfEmpty || fTag.Omitempty
	ret.Ignore = ret.Ignore || fTag.Ignore
	return ret, nil
}

// IsPresenceMarker returns true if tag defines presence marker holder
func IsPresenceMarker(tag reflect.StructTag) bool {
	if _, ok := tag.Lookup(PresenceMarkerTag); ok {
		return true
	}
	if _, ok := tag.Lookup(setMarkerTag); ok {
		return true
	}
	return strings.Contains(string(tag), legacyTagFragment)
}

func matchPair(cursor *parsly.Cursor) (string, string) {
	key := ""
	value := ""
	input := cursor.Input[cursor.Pos:]
	eqIndex := bytes.IndexByte(input, '=')
	comaIndex := bytes.IndexByte(input, ',')
	if eqIndex != -1 && (comaIndex == -1 || eqIndex < comaIndex) {
		match := cursor.MatchAny(eqTerminatorMatcher)
		if match.Code == eqTerminatorToken {
			key = match.Text(cursor)
			key = key[:len(key)-1] //exclude =
		}
	}
	match := cursor.MatchAny(scopeBlockMatcher, comaTerminatorMatcher)
	switch match.Code {
	case scopeBlockToken:
		value = match.Text(cursor)
		value = value[1 : len(value)-1]
		cursor.MatchAny(comaTerminatorMatcher)
	case comaTerminatorToken:
		value = match.Text(cursor)
		value = value[:len(value)-1] //exclude ,
	default:
		if cursor.Pos < len(cursor.Input) {
			value = string(cursor.Input[cursor.Pos:])
			cursor.Pos = len(cursor.Input)
		}
	}
	if key == "" {
		key, value = value, ""
	}
	return strings.TrimSpace(key), strings.TrimSpace(value)
}
