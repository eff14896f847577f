package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/inputs"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func TestNew_SeedsDefaultsAndVisibility(t *testing.T) {
	t.Parallel()

	c, err := form.New(registrationFields())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	want := map[string]any{
		"email":         "",
		"country":       "us",
		"customCountry": "",
		"newsletter":    false,
		"stars":         0,
	}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}

	if c.Visible("customCountry") {
		t.Fatal("customCountry should start hidden while country is us")
	}
	if !c.Visible("email") || !c.Visible("stars") {
		t.Fatal("unconditional fields should start visible")
	}
	if c.ID() == "" {
		t.Fatal("expected a minted instance id")
	}
}

func TestNew_RejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	_, err := form.New([]model.Field{
		{Name: "email", Type: model.FieldTypeEmail},
		{Name: "email", Type: model.FieldTypeText},
	})
	var configErr *model.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError for duplicate names, got %v", err)
	}

	// A declared default has to survive its own field's normalization.
	_, err = form.New([]model.Field{
		{Name: "country", Type: model.FieldTypeSelect, Default: "atlantis", Options: []model.Option{
			{Value: "us"}, {Value: "other"},
		}},
	})
	var inputErr *inputs.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for bad default, got %v", err)
	}
}

func TestSetValue_VisibilityChainAndRetention(t *testing.T) {
	t.Parallel()

	validator := &scriptedValidator{}
	handler := &recordingHandler{}
	c := newController(t,
		form.WithValidator(validator),
		form.WithSubmitHandler(handler.submit),
	)

	if err := c.SetValue("country", "other"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	if !c.Visible("customCountry") {
		t.Fatal("customCountry should appear when country is other")
	}
	if err := c.SetValue("customCountry", "Narnia"); err != nil {
		t.Fatalf("set customCountry: %v", err)
	}

	// Toggle the gate away and back: the dependent value survives hiding.
	if err := c.SetValue("country", "us"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	if c.Visible("customCountry") {
		t.Fatal("customCountry should hide when country is us")
	}
	if got := c.Values()["customCountry"]; got != "Narnia" {
		t.Fatalf("hidden value should be retained, got %v", got)
	}

	sub, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.Accepted {
		t.Fatalf("expected accepted submission, got %+v", sub)
	}
	if _, leaked := sub.Payload["customCountry"]; leaked {
		t.Fatal("hidden field leaked into the payload")
	}

	if err := c.SetValue("country", "other"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	if got, _ := c.Value("customCountry"); got != "Narnia" {
		t.Fatalf("reappearing field should surface the retained value, got %v", got)
	}
}

func TestSetValue_RejectedInputKeepsPriorValue(t *testing.T) {
	t.Parallel()

	c := newController(t)
	if err := c.SetValue("stars", 3); err != nil {
		t.Fatalf("set stars: %v", err)
	}

	err := c.SetValue("stars", 9)
	var inputErr *inputs.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for out-of-range rating, got %v", err)
	}
	if got, _ := c.Value("stars"); got != 3 {
		t.Fatalf("prior value should survive a rejected write, got %v", got)
	}

	if err := c.SetValue("ghost", "boo"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSetValues_BatchAppliesKnownFields(t *testing.T) {
	t.Parallel()

	c := newController(t)
	err := c.SetValues(map[string]any{
		"country": "other",
		"stars":   4,
		"ghost":   "boo",
	})
	if !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected unknown-field failure in batch error, got %v", err)
	}
	if got := c.Values()["country"]; got != "other" {
		t.Fatalf("batch should still apply known fields, got country=%v", got)
	}
	if got := c.Values()["stars"]; got != 4 {
		t.Fatalf("batch should still apply known fields, got stars=%v", got)
	}
}

func TestSubmit_DefaultRulesValidatorBlocksAndRecovers(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	c := newController(t, form.WithSubmitHandler(handler.submit))

	sub, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Accepted {
		t.Fatal("submission should be rejected while email is empty")
	}
	if got := c.Errors()["email"]; len(got) == 0 {
		t.Fatal("expected a recorded message for email")
	}
	if handler.count() != 0 {
		t.Fatal("host callback must not run for rejected submissions")
	}

	// Entering a value clears the field's message; the next submit passes.
	if err := c.SetValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if got := c.Errors()["email"]; len(got) != 0 {
		t.Fatalf("message should clear on successful write, got %v", got)
	}

	sub, err = c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.Accepted {
		t.Fatalf("expected acceptance, got errors %v", sub.Errors)
	}
	if handler.count() != 1 {
		t.Fatalf("expected exactly one callback, got %d", handler.count())
	}
	if got := handler.last()["email"]; got != "ada@example.com" {
		t.Fatalf("payload should carry the entered email, got %v", got)
	}
}

func TestSubmit_MapsExternalErrorKeys(t *testing.T) {
	t.Parallel()

	validator := &scriptedValidator{results: []validation.Result{
		validation.Invalid(map[string][]string{
			"#/properties/email": {"Email already registered"},
			"base":               {"Try again later"},
		}),
	}}
	c := newController(t, form.WithValidator(validator))

	sub, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Accepted {
		t.Fatal("expected rejection")
	}
	if got := c.Errors()["email"]; len(got) != 1 || got[0] != "Email already registered" {
		t.Fatalf("pointer key should map onto the field, got %v", got)
	}
	if got := c.FormErrors(); len(got) != 1 || got[0] != "Try again later" {
		t.Fatalf("unattributable key should surface as a form error, got %v", got)
	}
}

func TestSubmit_SecondCallRefusedWhilePending(t *testing.T) {
	t.Parallel()

	validator := newBlockingValidator(validation.OK())
	handler := &recordingHandler{}
	c := newController(t,
		form.WithValidator(validator),
		form.WithSubmitHandler(handler.submit),
	)
	if err := c.SetValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	done := make(chan struct{})
	var firstSub form.Submission
	var firstErr error
	go func() {
		defer close(done)
		firstSub, firstErr = c.Submit(context.Background())
	}()

	<-validator.entered
	if !c.Busy() {
		t.Fatal("controller should report busy while the validator runs")
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, form.ErrSubmitPending) {
		t.Fatalf("expected ErrSubmitPending, got %v", err)
	}

	close(validator.release)
	<-done

	if firstErr != nil {
		t.Fatalf("first submit failed: %v", firstErr)
	}
	if !firstSub.Accepted {
		t.Fatalf("first submit should be accepted, got %+v", firstSub)
	}
	if handler.count() != 1 {
		t.Fatalf("rapid repeats must coalesce to one callback, got %d", handler.count())
	}
	if c.Busy() {
		t.Fatal("controller should settle after the submission")
	}
}

func TestReset_DuringInFlightDiscardsOutcome(t *testing.T) {
	t.Parallel()

	validator := newBlockingValidator(validation.OK())
	handler := &recordingHandler{}
	c := newController(t,
		form.WithValidator(validator),
		form.WithSubmitHandler(handler.submit),
	)
	if err := c.SetValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	done := make(chan struct{})
	var subErr error
	go func() {
		defer close(done)
		_, subErr = c.Submit(context.Background())
	}()

	<-validator.entered
	c.Reset()
	close(validator.release)
	<-done

	if !errors.Is(subErr, form.ErrStaleSubmission) {
		t.Fatalf("expected ErrStaleSubmission, got %v", subErr)
	}
	if handler.count() != 0 {
		t.Fatal("discarded submission must not reach the host callback")
	}
	if got := c.Values()["email"]; got != "" {
		t.Fatalf("reset should restore defaults, got email=%v", got)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("reset should clear messages, got %v", c.Errors())
	}
	if c.Busy() {
		t.Fatal("reset should leave the controller idle")
	}
}

func TestReset_IdempotentAndHandleNilSafe(t *testing.T) {
	t.Parallel()

	var pending form.Handle
	pending.Reset() // before the form exists
	if pending.Busy() {
		t.Fatal("zero handle should report idle")
	}

	c := newController(t)
	if err := c.SetValue("country", "other"); err != nil {
		t.Fatalf("set country: %v", err)
	}

	handle := c.Handle()
	handle.Reset()
	handle.Reset()
	if got := c.Values()["country"]; got != "us" {
		t.Fatalf("reset should restore the declared default, got %v", got)
	}
	if c.Visible("customCountry") {
		t.Fatal("reset should re-resolve visibility")
	}
}

func TestSubmit_CallbackErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("downstream unavailable")
	handler := &recordingHandler{err: boom}
	c := newController(t,
		form.WithValidator(&scriptedValidator{}),
		form.WithSubmitHandler(handler.submit),
	)
	if err := c.SetValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	_, err := c.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped callback error, got %v", err)
	}
	if got := c.Values()["email"]; got != "ada@example.com" {
		t.Fatal("a failing callback must not reset entered data")
	}
	if c.Busy() {
		t.Fatal("controller should settle after a failed callback")
	}
}

func TestRender_DispatchesWithThemeAndClassNames(t *testing.T) {
	t.Parallel()

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456"},
		},
	}}

	c, err := form.NewForm(model.Form{
		Title:       "Create account",
		SubmitLabel: "Join",
		ClassNames:  map[string]string{"form": "crm-form"},
		Fields:      registrationFields(),
	},
		form.WithID("fixed-form"),
		form.WithRenderers(registry),
		form.WithThemeSelector(selector),
		form.WithTheme("acme", "dark"),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	out, err := c.Render(context.Background(), "capture",
		form.RenderWithAction("/signup"),
		form.RenderWithClassNames(map[string]string{"label": "crm-label"}),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "ok" {
		t.Fatalf("unexpected renderer output %q", out)
	}

	if renderer.view.FormID != "fixed-form" {
		t.Fatalf("form id not threaded through, got %q", renderer.view.FormID)
	}
	if got := fieldNames(renderer.view.Fields); !contains(got, "email") || contains(got, "customCountry") {
		t.Fatalf("view should hold the active subset, got %v", got)
	}

	if renderer.options.Method != "POST" {
		t.Fatalf("expected default POST method, got %q", renderer.options.Method)
	}
	if renderer.options.Action != "/signup" {
		t.Fatalf("action not applied, got %q", renderer.options.Action)
	}
	if got := renderer.options.ClassNames["form"]; got != "crm-form" {
		t.Fatalf("definition class override lost, got %q", got)
	}
	if got := renderer.options.ClassNames["label"]; got != "crm-label" {
		t.Fatalf("per-call class override lost, got %q", got)
	}
	if got := renderer.options.ClassNames["input"]; got != "formflow-input" {
		t.Fatalf("stock class lost, got %q", got)
	}

	if len(selector.calls) != 1 || selector.calls[0] != [2]string{"acme", "dark"} {
		t.Fatalf("unexpected selector calls: %v", selector.calls)
	}
	if renderer.options.Theme == nil || renderer.options.Theme.CSSVars["--brand"] != "#123456" {
		t.Fatalf("theme config not derived, got %+v", renderer.options.Theme)
	}

	// Per-call theme choice overrides the controller default.
	if _, err := c.Render(context.Background(), "capture", form.RenderWithTheme("acme", "")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(selector.calls) != 2 || selector.calls[1] != [2]string{"acme", ""} {
		t.Fatalf("per-call theme not used: %v", selector.calls)
	}
}

func TestRender_RequiresRegistry(t *testing.T) {
	t.Parallel()

	c := newController(t)
	if _, err := c.Render(context.Background(), ""); err == nil {
		t.Fatal("expected render without a registry to fail")
	}
}

func registrationFields() []model.Field {
	return []model.Field{
		{Name: "email", Type: model.FieldTypeEmail, Rules: []model.Rule{{Kind: model.RuleRequired}}},
		{Name: "country", Type: model.FieldTypeSelect, Default: "us", Options: []model.Option{
			{Value: "us", Label: "United States"},
			{Value: "other", Label: "Other"},
		}},
		{Name: "customCountry", Type: model.FieldTypeText, Condition: &model.Condition{Field: "country", Value: "other"}},
		{Name: "newsletter", Type: model.FieldTypeCheckbox},
		{Name: "stars", Type: model.FieldTypeRating, Max: 5},
	}
}

func newController(t *testing.T, opts ...form.Option) *form.Controller {
	t.Helper()
	c, err := form.New(registrationFields(), opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return c
}

func fieldNames(fields []model.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}
	return names
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

// scriptedValidator returns queued results in order and passes once the
// script is exhausted.
type scriptedValidator struct {
	mu       sync.Mutex
	pos      int
	results  []validation.Result
	payloads []map[string]any
}

func (v *scriptedValidator) Validate(_ context.Context, payload map[string]any) (validation.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.payloads = append(v.payloads, payload)
	if v.pos >= len(v.results) {
		return validation.OK(), nil
	}
	result := v.results[v.pos]
	v.pos++
	return result, nil
}

// blockingValidator parks inside Validate until released, signalling entry
// so tests can interleave deterministically.
type blockingValidator struct {
	entered chan struct{}
	release chan struct{}
	result  validation.Result
}

func newBlockingValidator(result validation.Result) *blockingValidator {
	return &blockingValidator{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  result,
	}
}

func (v *blockingValidator) Validate(context.Context, map[string]any) (validation.Result, error) {
	v.entered <- struct{}{}
	<-v.release
	return v.result, nil
}

type recordingHandler struct {
	mu       sync.Mutex
	payloads []map[string]any
	err      error
}

func (h *recordingHandler) submit(_ context.Context, payload map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, payload)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads)
}

func (h *recordingHandler) last() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.payloads) == 0 {
		return nil
	}
	return h.payloads[len(h.payloads)-1]
}

type captureRenderer struct {
	view    render.View
	options render.Options
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	r.view = view
	r.options = options
	return []byte("ok"), nil
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, s.err
}
