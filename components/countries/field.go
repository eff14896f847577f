package countries

import "github.com/goliatone/go-formflow/pkg/model"

// FieldOptions maps a country list to select options in list order.
func FieldOptions(list []Country) []model.Option {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.Option, 0, len(list))
	for _, country := range list {
		out = append(out, model.Option{Value: country.Code, Label: country.Name})
	}
	return out
}

// SelectField builds a ready select descriptor backed by the component data.
// Overrides replace the embedded list via WithCountries.
func SelectField(name, label string, fns ...OptionFn) (model.Field, error) {
	opts := NewOptions(fns...)

	list := opts.Countries
	if list == nil {
		loaded, err := DefaultCountries()
		if err != nil {
			return model.Field{}, err
		}
		list = loaded
	}

	return model.Field{
		Name:    name,
		Type:    model.FieldTypeSelect,
		Label:   label,
		Options: FieldOptions(list),
	}, nil
}
