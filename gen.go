package primitize

import "reflect"

var boolType = reflect.TypeOf(true)

//MarkerFields generate presence marker struct fields for exported record fields
func MarkerFields(t reflect.Type) []reflect.StructField {
	var result []reflect.StructField
	if t = ensureStruct(t); t == nil {
		return result
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || IsPresenceMarker(field.Tag) {
			continue
		}
		result = append(result, reflect.StructField{Name: field.Name, Type: boolType})
	}
	return result
}

//MarkerType returns presence marker holder type for a record
func MarkerType(t reflect.Type) reflect.Type {
	return reflect.StructOf(MarkerFields(t))
}

//MarkedType returns record type extended with a presence marker holder named holderName
func MarkedType(t reflect.Type, holderName string) reflect.Type {
	if t = ensureStruct(t); t == nil {
		return nil
	}
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || IsPresenceMarker(field.Tag) {
			continue
		}
		fields = append(fields, field)
	}
	fields = append(fields, reflect.StructField{
		Name: holderName,
		Type: reflect.PointerTo(MarkerType(t)),
		Tag:  reflect.StructTag(PresenceMarkerTag + `:"true" ` + TagName + `:"-"`),
	})
	return reflect.StructOf(fields)
}
