package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path returns a binder that fills string fields tagged `path:"name"` using extractor,
// typically chi.URLParam.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor is nil", ErrInvalidPath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a non-nil pointer to struct", ErrInvalidPath)
		}
		rv = rv.Elem()
		rt := rv.Type()

		for i := range rv.NumField() {
			field := rv.Field(i)
			name, ok := rt.Field(i).Tag.Lookup("path")
			if !ok || name == "" || name == "-" || !field.CanSet() {
				continue
			}
			if field.Kind() != reflect.String {
				return fmt.Errorf("%w: field %s must be a string", ErrInvalidPath, rt.Field(i).Name)
			}
			field.SetString(extractor(r, name))
		}
		return nil
	}
}
