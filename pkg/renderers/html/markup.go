package html

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
)

const indentUnit = "  "

// themeStylesheetKey is the asset key a theme uses to publish its stylesheet.
const themeStylesheetKey = "theme.css"

func (r *Renderer) buildMarkup(view render.View, options render.Options) []byte {
	classes := render.MergeClassNames(render.DefaultClassNames(), options.ClassNames)

	var b strings.Builder
	b.Grow(2048)

	writeFormOpen(&b, view, options, classes)
	r.writeStylesheets(&b, options)
	writeMethodOverride(&b, options)
	writeFormErrors(&b, view.FormErrors, classes)
	for _, field := range view.Fields {
		writeField(&b, view, field, classes)
	}
	writeSubmit(&b, view, classes)
	b.WriteString("</form>\n")
	return []byte(b.String())
}

func writeFormOpen(b *strings.Builder, view render.View, options render.Options, classes map[string]string) {
	b.WriteString("<form")
	if view.FormID != "" {
		writeAttr(b, "id", "ff-"+view.FormID)
	}
	writeAttr(b, "class", render.ClassFor(classes, render.SlotForm))
	native, _ := splitMethod(options.Method)
	writeAttr(b, "method", native)
	writeAttr(b, "action", options.Action)
	if options.Theme != nil {
		writeAttr(b, "style", styleVars(options.Theme.CSSVars))
	}
	b.WriteString(">\n")
}

// splitMethod maps the requested method onto what a browser form can carry
// natively. Anything beyond GET and POST posts with a hidden override input.
func splitMethod(method string) (native, override string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "POST"
	}
	switch method {
	case "GET", "POST":
		return strings.ToLower(method), ""
	}
	return "post", method
}

func (r *Renderer) writeStylesheets(b *strings.Builder, options render.Options) {
	hrefs := append([]string(nil), r.stylesheets...)
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if href := options.Theme.AssetURL(themeStylesheetKey); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	for _, href := range hrefs {
		b.WriteString(indentUnit)
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(href))
		b.WriteString("\">\n")
	}
}

func writeMethodOverride(b *strings.Builder, options render.Options) {
	_, override := splitMethod(options.Method)
	if override == "" {
		return
	}
	b.WriteString(indentUnit)
	b.WriteString(`<input type="hidden" name="_method" value="`)
	b.WriteString(html.EscapeString(override))
	b.WriteString("\">\n")
}

func writeFormErrors(b *strings.Builder, messages []string, classes map[string]string) {
	if len(messages) == 0 {
		return
	}
	b.WriteString(indentUnit)
	b.WriteString("<div")
	writeAttr(b, "class", render.ClassFor(classes, render.SlotError))
	b.WriteString(` role="alert">` + "\n")
	for _, msg := range messages {
		b.WriteString(indentUnit + indentUnit)
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(msg))
		b.WriteString("</p>\n")
	}
	b.WriteString(indentUnit)
	b.WriteString("</div>\n")
}

func writeField(b *strings.Builder, view render.View, field model.Field, classes map[string]string) {
	b.WriteString(indentUnit)
	b.WriteString("<div")
	writeAttr(b, "class", render.ClassFor(classes, render.SlotField))
	writeAttr(b, "data-field", field.Name)
	writeAttr(b, "data-type", string(field.Type))
	b.WriteString(">\n")

	writeLabel(b, field, classes)
	writeControl(b, view, field, classes)

	// Labels and descriptions were sanitized at compile time; they are the
	// only markup emitted unescaped.
	if field.Description != "" {
		b.WriteString(indentUnit + indentUnit)
		b.WriteString("<p")
		writeAttr(b, "class", render.ClassFor(classes, render.SlotHelp))
		b.WriteString(">")
		b.WriteString(field.Description)
		b.WriteString("</p>\n")
	}

	writeFieldErrors(b, view.ErrorsFor(field.Name), classes)

	b.WriteString(indentUnit)
	b.WriteString("</div>\n")
}

func writeLabel(b *strings.Builder, field model.Field, classes map[string]string) {
	if field.Label == "" {
		return
	}
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<label")
	if labelSupportsFor(field.Type) {
		writeAttr(b, "for", "ff-"+field.Name)
	}
	writeAttr(b, "class", render.ClassFor(classes, render.SlotLabel))
	b.WriteString(">")
	b.WriteString(field.Label)
	if field.Required {
		b.WriteString(" *")
	}
	b.WriteString("</label>\n")
}

// labelSupportsFor reports whether the control renders as a single element a
// label's for attribute can reference. Grouped controls carry the id on
// their wrapper instead.
func labelSupportsFor(t model.FieldType) bool {
	switch t {
	case model.FieldTypeRadio, model.FieldTypeRating:
		return false
	}
	return true
}

func writeControl(b *strings.Builder, view render.View, field model.Field, classes map[string]string) {
	inputClass := render.ClassFor(classes, render.InputSlot(field.Type), render.SlotInput)
	value := view.Value(field.Name)

	switch field.Type {
	case model.FieldTypeTextarea:
		writeTextarea(b, field, inputClass, valueString(value))
	case model.FieldTypeCheckbox:
		writeCheckbox(b, field, inputClass, value == true)
	case model.FieldTypeSelect:
		writeSelect(b, field, inputClass, valueString(value))
	case model.FieldTypeRadio:
		writeRadioGroup(b, field, inputClass, valueString(value))
	case model.FieldTypeRating:
		writeRatingGroup(b, field, inputClass, valueInt(value))
	case model.FieldTypeFile:
		writeFileInput(b, field, inputClass)
	default:
		writeTextInput(b, field, inputClass, valueString(value))
	}
}

func writeTextInput(b *strings.Builder, field model.Field, class, value string) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<input")
	writeAttr(b, "type", inputType(field.Type))
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "name", field.Name)
	writeAttr(b, "class", class)
	writeAttr(b, "value", value)
	writeAttr(b, "placeholder", field.Placeholder)
	writeFlag(b, "required", field.Required)
	b.WriteString(">\n")
}

func writeTextarea(b *strings.Builder, field model.Field, class, value string) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<textarea")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "name", field.Name)
	writeAttr(b, "class", class)
	writeAttr(b, "placeholder", field.Placeholder)
	writeFlag(b, "required", field.Required)
	b.WriteString(">")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</textarea>\n")
}

func writeCheckbox(b *strings.Builder, field model.Field, class string, checked bool) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<input")
	writeAttr(b, "type", "checkbox")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "name", field.Name)
	writeAttr(b, "class", class)
	writeAttr(b, "value", "true")
	writeFlag(b, "checked", checked)
	writeFlag(b, "required", field.Required)
	b.WriteString(">\n")
}

func writeSelect(b *strings.Builder, field model.Field, class, current string) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<select")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "name", field.Name)
	writeAttr(b, "class", class)
	writeFlag(b, "required", field.Required)
	b.WriteString(">\n")

	if field.Placeholder != "" {
		b.WriteString(indentUnit + indentUnit + indentUnit)
		b.WriteString(`<option value="" disabled`)
		writeFlag(b, "selected", current == "")
		b.WriteString(">")
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString("</option>\n")
	}
	for _, opt := range field.Options {
		b.WriteString(indentUnit + indentUnit + indentUnit)
		b.WriteString("<option")
		writeAttr(b, "value", opt.Value)
		writeFlag(b, "selected", current == opt.Value)
		b.WriteString(">")
		b.WriteString(html.EscapeString(optionLabel(opt)))
		b.WriteString("</option>\n")
	}

	b.WriteString(indentUnit + indentUnit)
	b.WriteString("</select>\n")
}

func writeRadioGroup(b *strings.Builder, field model.Field, class, current string) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<div")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "class", class)
	b.WriteString(` role="radiogroup">` + "\n")
	for _, opt := range field.Options {
		b.WriteString(indentUnit + indentUnit + indentUnit)
		b.WriteString("<label><input")
		writeAttr(b, "type", "radio")
		writeAttr(b, "name", field.Name)
		writeAttr(b, "value", opt.Value)
		writeFlag(b, "checked", current == opt.Value)
		b.WriteString("> ")
		b.WriteString(html.EscapeString(optionLabel(opt)))
		b.WriteString("</label>\n")
	}
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("</div>\n")
}

func writeRatingGroup(b *strings.Builder, field model.Field, class string, current int) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<div")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "class", class)
	writeAttr(b, "data-rating-max", strconv.Itoa(field.Max))
	b.WriteString(` role="radiogroup">` + "\n")
	for star := 1; star <= field.Max; star++ {
		label := strconv.Itoa(star)
		b.WriteString(indentUnit + indentUnit + indentUnit)
		b.WriteString("<label><input")
		writeAttr(b, "type", "radio")
		writeAttr(b, "name", field.Name)
		writeAttr(b, "value", label)
		writeFlag(b, "checked", current == star)
		b.WriteString("> ")
		b.WriteString(label)
		b.WriteString("</label>\n")
	}
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("</div>\n")
}

func writeFileInput(b *strings.Builder, field model.Field, class string) {
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<input")
	writeAttr(b, "type", "file")
	writeAttr(b, "id", "ff-"+field.Name)
	writeAttr(b, "name", field.Name)
	writeAttr(b, "class", class)
	writeFlag(b, "required", field.Required)
	b.WriteString(">\n")
}

func writeFieldErrors(b *strings.Builder, messages []string, classes map[string]string) {
	if len(messages) == 0 {
		return
	}
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("<ul")
	writeAttr(b, "class", render.ClassFor(classes, render.SlotError))
	b.WriteString(">\n")
	for _, msg := range messages {
		b.WriteString(indentUnit + indentUnit + indentUnit)
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(msg))
		b.WriteString("</li>\n")
	}
	b.WriteString(indentUnit + indentUnit)
	b.WriteString("</ul>\n")
}

func writeSubmit(b *strings.Builder, view render.View, classes map[string]string) {
	label := "Submit"
	if view.Definition != nil && view.Definition.SubmitLabel != "" {
		label = view.Definition.SubmitLabel
	}
	b.WriteString(indentUnit)
	b.WriteString(`<button type="submit"`)
	writeAttr(b, "class", render.ClassFor(classes, render.SlotSubmit))
	b.WriteString(">")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</button>\n")
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

func writeFlag(b *strings.Builder, name string, on bool) {
	if !on {
		return
	}
	b.WriteString(" ")
	b.WriteString(name)
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePassword:
		return "password"
	case model.FieldTypeDate:
		return "date"
	}
	return "text"
}

func optionLabel(opt model.Option) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func styleVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func valueInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
