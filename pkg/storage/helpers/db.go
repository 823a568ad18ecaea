package helpers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stoewer/go-strcase"
)

func columnNameFromFieldName(fieldName string) string {
	return strcase.SnakeCase(fieldName)
}

// GetDBColumnName returns column name from sql tag string
func GetDBColumnName(t reflect.Type, fieldName string) (string, error) {
	f, ok := t.FieldByName(fieldName)
	if !ok {
		return "", fmt.Errorf("field '%s' is not found", fieldName)
	}
	value, found := f.Tag.Lookup("db")
	if !found {
		return columnNameFromFieldName(fieldName), nil
	}
	idx := strings.Index(value, ",")
	if idx == -1 {
		return value, nil
	}
	return value[0:idx], nil
}

// GetColumns lists the SQL columns of a model structure, in field order.
// Fields tagged `db:"-"` are not stored in the database and are skipped.
func GetColumns(obj interface{}) ([]string, error) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	t := v.Type()

	var columns []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			// not exported
			continue
		}
		columnName, err := GetDBColumnName(t, f.Name)
		if err != nil {
			return nil, err
		}
		if columnName == "-" {
			continue
		}
		columns = append(columns, "`"+columnName+"`")
	}
	return columns, nil
}
