package visibility_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

func compileFields(t *testing.T, fields []model.Field) *model.Definition {
	t.Helper()
	def, err := model.Compile(fields)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return def
}

func TestResolve_UnconditionalAlwaysActive(t *testing.T) {
	t.Parallel()

	def := compileFields(t, []model.Field{
		{Name: "fullName", Type: model.FieldTypeText},
		{Name: "email", Type: model.FieldTypeEmail},
	})

	for _, values := range []map[string]any{
		nil,
		{},
		{"fullName": "x", "email": "y"},
	} {
		set := visibility.Resolve(def, values)
		if !set.Has("fullName") || !set.Has("email") {
			t.Fatalf("unconditional fields must stay active, got %v", set.Names())
		}
	}
}

func TestResolve_ConditionChain(t *testing.T) {
	t.Parallel()

	def := compileFields(t, []model.Field{
		{Name: "country", Type: model.FieldTypeSelect, Options: []model.Option{
			{Value: "us"}, {Value: "other"},
		}},
		{Name: "customCountry", Type: model.FieldTypeText,
			Condition: &model.Condition{Field: "country", Value: "other"}},
		{Name: "customRegion", Type: model.FieldTypeText,
			Condition: &model.Condition{Field: "customCountry", Value: "Wakanda"}},
	})

	set := visibility.Resolve(def, map[string]any{"country": "us"})
	if set.Has("customCountry") || set.Has("customRegion") {
		t.Fatalf("dependents should be hidden for country=us: %v", set.Names())
	}

	set = visibility.Resolve(def, map[string]any{"country": "other", "customCountry": "Wakanda"})
	want := []string{"country", "customCountry", "customRegion"}
	if diff := cmp.Diff(want, set.Names()); diff != "" {
		t.Fatalf("active set mismatch (-want +got):\n%s", diff)
	}

	// The transitive dependent stays hidden while its target is hidden,
	// even when the stored values would otherwise match.
	set = visibility.Resolve(def, map[string]any{"country": "us", "customCountry": "Wakanda"})
	if set.Has("customRegion") {
		t.Fatalf("customRegion must follow its hidden target: %v", set.Names())
	}
}

func TestResolve_FailClosedOnUnknownTarget(t *testing.T) {
	t.Parallel()

	def := compileFields(t, []model.Field{
		{Name: "extra", Type: model.FieldTypeText,
			Condition: &model.Condition{Field: "ghost", Value: "yes"}},
	})

	set := visibility.Resolve(def, map[string]any{"ghost": "yes"})
	if set.Has("extra") {
		t.Fatalf("unknown condition target must resolve inactive")
	}
}

func TestResolve_TypedEquality(t *testing.T) {
	t.Parallel()

	def := compileFields(t, []model.Field{
		{Name: "stars", Type: model.FieldTypeRating, Max: 5},
		{Name: "whyFive", Type: model.FieldTypeTextarea,
			Condition: &model.Condition{Field: "stars", Value: 5}},
		{Name: "subscribe", Type: model.FieldTypeCheckbox},
		{Name: "frequency", Type: model.FieldTypeSelect,
			Options:   []model.Option{{Value: "daily"}, {Value: "weekly"}},
			Condition: &model.Condition{Field: "subscribe", Value: true}},
	})

	cases := []struct {
		name   string
		values map[string]any
		active []string
	}{
		{"numeric match from int", map[string]any{"stars": 5}, []string{"whyFive"}},
		{"numeric match from string", map[string]any{"stars": "5"}, []string{"whyFive"}},
		{"numeric match from float", map[string]any{"stars": 5.0}, []string{"whyFive"}},
		{"numeric mismatch", map[string]any{"stars": 4}, nil},
		{"bool match", map[string]any{"subscribe": true}, []string{"frequency"}},
		{"bool match from string", map[string]any{"subscribe": "true"}, []string{"frequency"}},
		{"bool mismatch", map[string]any{"subscribe": false}, nil},
	}

	for _, tc := range cases {
		set := visibility.Resolve(def, tc.values)
		for _, name := range tc.active {
			if !set.Has(name) {
				t.Errorf("%s: expected %q active, got %v", tc.name, name, set.Names())
			}
		}
		if tc.active == nil {
			if set.Has("whyFive") && tc.values["stars"] != nil {
				t.Errorf("%s: whyFive unexpectedly active", tc.name)
			}
			if set.Has("frequency") && tc.values["subscribe"] != nil {
				t.Errorf("%s: frequency unexpectedly active", tc.name)
			}
		}
	}
}

func TestResolveWith_RuleAttribute(t *testing.T) {
	t.Parallel()

	def := compileFields(t, []model.Field{
		{Name: "audit", Type: model.FieldTypeTextarea,
			Attributes: map[string]string{visibility.RuleAttribute: `extras.role == "admin"`}},
		{Name: "note", Type: model.FieldTypeText},
	})

	admin := stubEvaluator{result: true}
	set, err := visibility.ResolveWith(def, nil, admin, map[string]any{"role": "admin"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !set.Has("audit") || !set.Has("note") {
		t.Fatalf("expected both fields active, got %v", set.Names())
	}

	viewer := stubEvaluator{result: false}
	set, err = visibility.ResolveWith(def, nil, viewer, map[string]any{"role": "viewer"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Has("audit") {
		t.Fatalf("rule veto should hide the field")
	}

	failing := stubEvaluator{err: errors.New("boom")}
	set, err = visibility.ResolveWith(def, nil, failing, nil)
	if err == nil {
		t.Fatalf("expected evaluator error to surface")
	}
	if set.Has("audit") {
		t.Fatalf("evaluator failure must leave the field inactive")
	}
	if !set.Has("note") {
		t.Fatalf("fields without rules are unaffected by evaluator failures")
	}
}

type stubEvaluator struct {
	result bool
	err    error
}

func (s stubEvaluator) Eval(field, rule string, ctx visibility.Context) (bool, error) {
	return s.result, s.err
}
