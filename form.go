package bscmp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"github.com/adh/bscmp/lib/csrf"
)

// FormState is the position of a form in its per-request submission cycle.
type FormState int

const (
	// FormIdle means the request is a plain render, or a submission of some
	// other form on the page.
	FormIdle FormState = iota
	// FormTokenChecked means a submission for this form arrived and its
	// token is being checked.
	FormTokenChecked
	// FormProcessed means the token matched and Process ran.
	FormProcessed
	// FormRejected means the token did not match.
	FormRejected
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormTokenChecked:
		return "token-checked"
	case FormProcessed:
		return "processed"
	case FormRejected:
		return "rejected"
	}
	return fmt.Sprintf("FormState(%d)", int(s))
}

// Submission is the outcome of Form.Submit.
type Submission struct {
	State FormState
	// Redirect is the URL to send the client to after processing.
	Redirect string
}

// Form is an interactive component that processes its own submissions.
//
// A submission is only processed when the request is a POST, the body
// carries the form's hidden trigger field, and the field holds the token
// bound to the session, the form's prefix and the current endpoint. After
// Process succeeds the client is redirected to a freshly built URL
// (POST/redirect/GET), so refreshing the page cannot submit twice.
//
//	form, _ := bscmp.NewForm(ctx, bscmp.FormConfig{
//	    Body: fields,
//	    Process: func(f *bscmp.Form) error {
//	        values, _ := f.Values()
//	        return store.Rename(values.Get("name"))
//	    },
//	})
type Form struct {
	*Component

	body      templ.Component
	process   func(*Form) error
	onInvalid func(*Form) error

	phase     FormState
	done      bool
	result    Submission
	err       error
	overrides map[string]any
}

// FormConfig configures NewForm.
type FormConfig struct {
	// Slots declares URL state the form carries, if any.
	Slots Slots
	// Body renders the form fields.
	Body templ.Component
	// Process runs the mutation for a valid submission.
	Process func(*Form) error
	// OnInvalidToken handles a token mismatch. The default fails the
	// request with ErrInvalidToken (HTTP 400).
	OnInvalidToken func(*Form) error
}

// NewForm creates a form component.
func NewForm(ctx *Context, cfg FormConfig, opts ...Option) (*Form, error) {
	c, err := NewInteractive(ctx, "form", cfg.Slots, opts...)
	if err != nil {
		return nil, err
	}
	return &Form{
		Component: c,
		body:      cfg.Body,
		process:   cfg.Process,
		onInvalid: cfg.OnInvalidToken,
	}, nil
}

// Phase returns the current position in the submission cycle.
func (f *Form) Phase() FormState {
	return f.phase
}

// TriggerFieldName is the name of the hidden field marking a submission
// of this form: __<prefix>__.
func (f *Form) TriggerFieldName() string {
	return separator + f.prefix + separator
}

// TriggerFieldValue is the token expected in the trigger field.
func (f *Form) TriggerFieldValue() (string, error) {
	return f.ctx.ScopedToken(f.prefix, true)
}

// HiddenTriggerField renders the hidden trigger input.
func (f *Form) HiddenTriggerField() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		token, err := f.TriggerFieldValue()
		if err != nil {
			return err
		}
		return Void("input", templ.Attributes{
			"type":  "hidden",
			"name":  f.TriggerFieldName(),
			"value": token,
		}).Render(ctx, w)
	})
}

// Values returns the submitted form body.
func (f *Form) Values() (url.Values, error) {
	return f.ctx.Form()
}

// RedirectWith sets slot overrides applied to the post-submission URL.
// Call it from Process.
func (f *Form) RedirectWith(overrides map[string]any) {
	f.overrides = overrides
}

// Submit runs the submission cycle once per request. Later calls return the
// first outcome without side effects.
func (f *Form) Submit() (Submission, error) {
	if f.done {
		return f.result, f.err
	}
	f.done = true
	f.result, f.err = f.submit()
	f.result.State = f.phase
	return f.result, f.err
}

func (f *Form) submit() (Submission, error) {
	if !f.ctx.IsSubmit() {
		return Submission{}, nil
	}
	values, err := f.ctx.Form()
	if err != nil {
		return Submission{}, err
	}
	submitted, ok := values[f.TriggerFieldName()]
	if !ok {
		return Submission{}, nil
	}

	f.phase = FormTokenChecked
	expected, err := f.TriggerFieldValue()
	if err != nil {
		return Submission{}, err
	}
	if len(submitted) == 0 || !csrf.Equal(submitted[0], expected) {
		f.phase = FormRejected
		f.ctx.metrics.submission(FormRejected)
		f.ctx.logger.Warn("bscmp: rejected form submission",
			"form", f.prefix, "endpoint", f.ctx.Endpoint(), "reason", "token mismatch")
		return Submission{}, f.invalidToken()
	}

	f.phase = FormProcessed
	f.ctx.metrics.submission(FormProcessed)
	if f.process != nil {
		if err := f.process(f); err != nil {
			return Submission{}, err
		}
	}
	u, err := f.BuildURL(f.overrides)
	if err != nil {
		return Submission{}, err
	}
	return Submission{Redirect: u}, nil
}

func (f *Form) invalidToken() error {
	if f.onInvalid != nil {
		return f.onInvalid(f)
	}
	return Abort(http.StatusBadRequest, ErrInvalidToken)
}

// Render processes a pending submission and renders the form. A processed
// submission aborts rendering with a *RedirectError.
func (f *Form) Render(ctx context.Context, w io.Writer) error {
	res, err := f.Submit()
	if err != nil {
		return err
	}
	if res.State == FormProcessed {
		return &RedirectError{URL: res.Redirect, Status: http.StatusSeeOther}
	}
	return Element("form", templ.Attributes{"method": "post", "id": f.Anchor()},
		f.HiddenTriggerField(),
		f.body,
	).Render(ctx, w)
}
