package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/adh/bscmp"
	bscmpchi "github.com/adh/bscmp/adapters/chi"
	"github.com/go-chi/chi/v5"
)

const bootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"

var showDoneSlot = bscmp.BoolSlot("done", false)

var todoCrumbs = bscmp.NewBreadcrumbs().Add("Todos", "/", nil)

type app struct {
	store *Store
	reg   *bscmp.Registry
}

// routes mounts the demo pages. GET and POST share handlers so forms post
// back to the page that rendered them.
func (a *app) routes(r chi.Router) {
	index := a.reg.Handler(a.indexPage).ServeHTTP
	detail := a.reg.Handler(a.todoPage).ServeHTTP

	r.Get("/", index)
	r.Post("/", index)
	r.Get("/todos/{id}", detail)
	r.Post("/todos/{id}", detail)
	r.Get("/about", a.reg.Handler(a.aboutPage).ServeHTTP)
}

func newRegistry(cfg *Config, opts ...bscmp.RegistryOption) (*bscmp.Registry, error) {
	store, err := bscmp.NewCookieStore([]byte(cfg.Secret))
	if err != nil {
		return nil, err
	}
	store.Name = cfg.Session.Cookie
	store.Secure = cfg.Session.Secure
	store.Sensitive = cfg.Session.Encrypt
	store.MaxAge = cfg.Session.MaxAge

	opts = append([]bscmp.RegistryOption{bscmp.WithSessionStore(store)}, opts...)
	return bscmpchi.NewRegistry(cfg.Secret, opts...), nil
}

func layout(ctx *bscmp.Context, title string, body ...templ.Component) templ.Component {
	nav := bscmp.NewNavTabs(ctx)
	nav.Add("Todos", "/", bscmp.NavPattern("/todos/*"))
	nav.Add("About", "/about")

	content := append([]templ.Component{
		nav,
		bscmp.Alerts(ctx),
		bscmp.Element("h1", templ.Attributes{"class": "my-3"}, bscmp.Text(title)),
	}, body...)

	return bscmp.Join(
		bscmp.Raw("<!DOCTYPE html>"),
		bscmp.Element("html", templ.Attributes{"lang": "en"},
			bscmp.Element("head", nil,
				bscmp.Void("meta", templ.Attributes{"charset": "utf-8"}),
				bscmp.Element("title", nil, bscmp.Text(title)),
				bscmp.Void("link", templ.Attributes{"rel": "stylesheet", "href": bootstrapCSS}),
			),
			bscmp.Element("body", nil,
				bscmp.Element("main", templ.Attributes{"class": "container py-3"}, content...),
			),
		),
	)
}

func (a *app) indexPage(ctx *bscmp.Context) (templ.Component, error) {
	filter, err := bscmp.NewInteractive(ctx, "filter", bscmp.NewSlots(showDoneSlot), bscmp.WithName("todos"))
	if err != nil {
		return nil, err
	}
	showDone := showDoneSlot.Get(filter)

	table := bscmp.NewTable(a.store.List(showDone),
		bscmp.AttrColumn[Todo]("#", "ID").WithLink(func(t Todo) string {
			return "/todos/" + strconv.Itoa(t.ID)
		}),
		bscmp.AttrColumn[Todo]("Title", "Title"),
		bscmp.FuncColumn("Tags", func(t Todo) any { return strings.Join(t.Tags, ", ") }),
		bscmp.AttrColumn[Todo]("Done", "Done").WithContentMap(map[any]any{true: "yes", false: ""}),
	)
	table.RowClasses = func(t Todo) []string {
		if t.Done {
			return []string{"text-body-secondary"}
		}
		return nil
	}

	pager, err := bscmp.NewPaginatedTable(ctx, table, bscmp.WithParent(filter), bscmp.WithName("list"))
	if err != nil {
		return nil, err
	}
	pager.PerPageOptions = []int{3, 10, 25}

	toggleLabel := "Show done"
	if showDone {
		toggleLabel = "Hide done"
	}
	toggleURL, err := filter.BuildURL(map[string]any{"done": !showDone})
	if err != nil {
		return nil, err
	}

	add, err := bscmp.NewForm(ctx, bscmp.FormConfig{
		Body: bscmp.Element("div", templ.Attributes{"class": "input-group"},
			bscmp.Void("input", templ.Attributes{
				"class":       "form-control",
				"name":        "title",
				"placeholder": "New todo",
			}),
			bscmp.SubmitButton("Add", bscmp.ButtonOptions{Context: "primary"}),
		),
		Process: func(f *bscmp.Form) error {
			values, err := f.Values()
			if err != nil {
				return err
			}
			title := strings.TrimSpace(values.Get("title"))
			if title == "" {
				f.Context().Flash(bscmp.FlashWarning, "A todo needs a title.")
				return nil
			}
			id := a.store.Add(title)
			f.Context().Flash(bscmp.FlashSuccess, fmt.Sprintf("Added todo #%d.", id))
			return nil
		},
	}, bscmp.WithName("add"))
	if err != nil {
		return nil, err
	}

	return layout(ctx, "Todos",
		bscmp.Row(
			bscmp.Col(8).Wrap(pager),
			bscmp.NewGridColumn(map[string]int{"xs": 12, "md": 4}).Wrap(
				bscmp.LinkButton(toggleURL, toggleLabel, bscmp.ButtonOptions{Context: "outline-secondary", Size: "sm"}),
				bscmp.Element("hr", nil),
				add,
			),
		),
	), nil
}

func (a *app) todoPage(ctx *bscmp.Context) (templ.Component, error) {
	id, err := strconv.Atoi(ctx.PathParams()["id"])
	if err != nil {
		return nil, bscmp.Abort(http.StatusNotFound, err)
	}
	todo, ok := a.store.Get(id)
	if !ok {
		return nil, bscmp.Abort(http.StatusNotFound, fmt.Errorf("todo %d", id))
	}

	toggleText := "Mark done"
	if todo.Done {
		toggleText = "Reopen"
	}
	toggle, err := bscmp.NewForm(ctx, bscmp.FormConfig{
		Body: bscmp.SubmitButton(toggleText, bscmp.ButtonOptions{Context: "primary"}),
		Process: func(f *bscmp.Form) error {
			a.store.Toggle(id)
			f.Context().Flash(bscmp.FlashSuccess, "Updated.")
			return nil
		},
	}, bscmp.WithName("toggle"))
	if err != nil {
		return nil, err
	}

	// The delete button posts from outside its form, so the submission is
	// handled here rather than during rendering.
	del, err := bscmp.NewForm(ctx, bscmp.FormConfig{
		Process: func(f *bscmp.Form) error {
			a.store.Delete(id)
			f.Context().Flash(bscmp.FlashInfo, fmt.Sprintf("Deleted todo #%d.", id))
			return nil
		},
	}, bscmp.WithName("delete"))
	if err != nil {
		return nil, err
	}
	res, err := del.Submit()
	if err != nil {
		return nil, err
	}
	if res.State == bscmp.FormProcessed {
		return nil, &bscmp.RedirectError{URL: "/"}
	}

	self, err := ctx.SelfURL(ctx.Params())
	if err != nil {
		return nil, err
	}

	toolbar := bscmp.NewToolbar()
	toolbar.AddButton("All todos", "/", nil)
	toolbar.AddSplitter()
	toolbar.AddButton("Open only", "/", url.Values{"todos__done": {"0"}})
	toolbar.AddButton("Including done", "/", url.Values{"todos__done": {"1"}})

	crumbs := todoCrumbs.Extend().Add(nil, "", nil)
	title := fmt.Sprintf("#%d %s", todo.ID, todo.Title)

	return layout(ctx, title,
		crumbs.Component(ctx, title),
		toolbar.Component(ctx, nil),
		bscmp.Element("div", templ.Attributes{"class": "d-flex gap-2 my-3"},
			toggle,
			bscmp.FormButton(self, "Delete", bscmp.ButtonOptions{Context: "danger"}, del.HiddenTriggerField()),
		),
	), nil
}

func (a *app) aboutPage(ctx *bscmp.Context) (templ.Component, error) {
	return layout(ctx, "About",
		bscmp.Element("p", nil, bscmp.Text("A demo of Bootstrap widgets whose state lives in the URL.")),
	), nil
}
