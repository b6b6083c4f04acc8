// Package app is the Bubble Tea program: search, cart, bookmarks and login
// views over a shared app.Service.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	shelf "tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/filter"
	"tableflip.dev/shelf/pkg/i18n"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/mount"
	"tableflip.dev/shelf/pkg/reltime"
	"tableflip.dev/shelf/pkg/render"
	"tableflip.dev/shelf/pkg/selection"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/tui/events"
	"tableflip.dev/shelf/pkg/tui/help"
	"tableflip.dev/shelf/pkg/tui/overlay"
	"tableflip.dev/shelf/pkg/tui/theme"
)

// Options configures the UI.
type Options struct {
	Service *shelf.Service
	// Templates and Name select the card template; nil and "" use the
	// built-in "row" template.
	Templates *template.Template
	Name      string
	Href      string
	Bundle    *i18n.Bundle
	// Widgets are applied to every relative-time widget the views mount.
	Widgets []reltime.Option
	// MarkdownStyle is the glamour style for help and item detail.
	MarkdownStyle string
	Log           *zap.Logger
}

type loadState int

const (
	loadPending loadState = iota
	loadReady
	loadFailed
)

// Model composes the views. Exactly one view is mounted at a time; the
// router unmounts the previous one, releasing its renderer widgets and bus
// subscription, before mounting the next.
type Model struct {
	ctx    context.Context
	svc    *shelf.Service
	opts   Options
	bundle *i18n.Bundle
	theme  theme.Theme
	log    *zap.Logger

	bridge *events.Bridge
	router *mount.Router
	unsub  func()

	width  int
	height int

	state   loadState
	items   []item.Item
	loadErr error
	spinner spinner.Model

	active *listView
	query  string
	dialog textinput.Model
	search bool
	login  textinput.Model

	detail   *help.Model
	helpPane *help.Model

	status    string
	statusErr bool

	// Header counters, reread when the cart or the session changes.
	cartLen int
	user    string
}

// New builds the root model. It returns an error when the card template is
// unusable so a broken configuration is reported before the screen opens.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Service == nil {
		return nil, errors.New("tui: no service configured")
	}
	if opts.Templates == nil {
		opts.Templates = render.Default()
		if opts.Name == "" {
			opts.Name = "row"
		}
	}
	if opts.Name == "" {
		opts.Name = render.DefaultName
	}
	if opts.Bundle == nil {
		opts.Bundle = i18n.Default()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if err := render.New(opts.Templates, opts.Name).Check(); err != nil {
		return nil, err
	}

	dialog := textinput.New()
	dialog.Placeholder = opts.Bundle.T("search.placeholder")
	dialog.Prompt = "/ "
	dialog.CharLimit = 120

	login := textinput.New()
	login.Placeholder = opts.Bundle.T("login.prompt")
	login.Prompt = "> "
	login.CharLimit = 64

	th := theme.Default()
	m := &Model{
		ctx:     ctx,
		svc:     opts.Service,
		opts:    opts,
		bundle:  opts.Bundle,
		theme:   th,
		log:     opts.Log,
		bridge:  events.NewBridge(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.List.Spinner)),
		dialog:  dialog,
		login:   login,
		width:   80,
		height:  24,
	}

	cart := opts.Service.Cart
	m.router = mount.NewRouter(
		mount.Route{Path: RouteSearch, Mount: func() *mount.Controller {
			return m.mountList(RouteSearch, "", m.results)
		}},
		mount.Route{
			Path:     RouteCart,
			Allow:    mount.HasEntries(ctx, cart),
			Fallback: RouteSearch,
			Mount: func() *mount.Controller {
				return m.mountList(RouteCart, selection.CartKey, func() []item.Item { return cart.List(ctx) })
			},
		},
		mount.Route{
			Path:     RouteBookmarks,
			Allow:    opts.Service.Session.IsAuthorized,
			Fallback: RouteLogin,
			Mount: func() *mount.Controller {
				return m.mountList(RouteBookmarks, selection.BookmarksKey, func() []item.Item {
					return opts.Service.Bookmarks.List(ctx)
				})
			},
		},
		mount.Route{Path: RouteLogin, Mount: m.mountLogin},
	)
	m.unsub = opts.Service.Bus.Subscribe(func(c selection.Change) {
		switch c.Key {
		case "", session.Key, selection.CartKey:
			m.bridge.Change(c.Key)
		}
	})
	m.refreshHeader()
	if _, err := m.router.Navigate(RouteSearch); err != nil {
		return nil, err
	}
	return m, nil
}

// Run launches the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := opts.Service.Follow(ctx); err != nil {
		m.log.Warn("not following store changes", zap.Error(err))
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close unmounts the current view and stops event delivery.
func (m *Model) Close() {
	m.router.Close()
	if m.unsub != nil {
		m.unsub()
	}
	m.bridge.Close()
}

// Route is the mounted view.
func (m *Model) Route() string { return m.router.Current() }

func (m *Model) mountList(route, key string, source func() []item.Item) *mount.Controller {
	ctrl := mount.New(route)
	widgets := append([]reltime.Option{reltime.WithPhrases(m.bundle)}, m.opts.Widgets...)
	widgets = append(widgets, reltime.OnDraw(func(string) { m.bridge.Redraw() }))
	v := &listView{
		route:    route,
		key:      key,
		ctrl:     ctrl,
		renderer: render.New(m.opts.Templates, m.opts.Name, render.WithWidgetOptions(widgets...)),
		buf:      &render.Buffer{},
		source:   source,
		binding:  render.Binding{Href: m.opts.Href},
	}
	ctrl.Acquire("renderer", v.renderer.Close)
	if key != "" {
		var store *selection.Store
		if key == selection.CartKey {
			store = m.svc.Cart
		} else {
			store = m.svc.Bookmarks.Store
		}
		ctrl.Acquire("subscription", store.Subscribe(func(c selection.Change) {
			m.bridge.Change(key)
		}))
	}
	ctrl.Acquire("view", func() {
		if m.active == v {
			m.active = nil
		}
	})
	m.active = v
	if err := v.refresh(); err != nil {
		m.setStatus(err.Error(), true)
	}
	return ctrl
}

func (m *Model) mountLogin() *mount.Controller {
	ctrl := mount.New(RouteLogin)
	m.login.Reset()
	m.login.Focus()
	ctrl.Acquire("input", m.login.Blur)
	return ctrl
}

// results is the search view's source: the catalog filtered by the query.
func (m *Model) results() []item.Item {
	if m.state != loadReady {
		return nil
	}
	return filter.Filter(m.items, m.query)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalog(), m.bridge.Wait())
}

func (m *Model) loadCatalog() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		items, err := svc.Load(ctx)
		return events.CatalogLoadedMsg{Items: items, Err: err}
	}
}

// Update routes Bubble Tea messages to the mounted view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.resizePanes()
		return m, nil
	case spinner.TickMsg:
		if m.state != loadPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd
	case events.CatalogLoadedMsg:
		m.onCatalog(v)
		return m, nil
	case events.RedrawMsg:
		return m, m.bridge.Wait()
	case events.ChangeMsg:
		m.onChange(v.Key)
		return m, m.bridge.Wait()
	case events.StatusMsg:
		m.refreshHeader()
		m.setStatus(v.Text, v.Err)
		return m, nil
	case tea.KeyMsg:
		return m.onKey(v)
	}
	return m, nil
}

func (m *Model) onCatalog(msg events.CatalogLoadedMsg) {
	if msg.Err != nil {
		m.state = loadFailed
		m.loadErr = msg.Err
		m.log.Warn("catalog unavailable", zap.Error(msg.Err))
		return
	}
	m.state = loadReady
	m.items = msg.Items
	m.refreshRoute(RouteSearch)
}

func (m *Model) onChange(key string) {
	switch key {
	case "", session.Key, selection.CartKey:
		m.refreshHeader()
	}
	if key == "" || key == session.Key {
		if m.Route() == RouteBookmarks && !m.svc.Session.IsAuthorized() {
			m.navigate(RouteBookmarks)
			return
		}
	}
	if m.active != nil && (key == "" || key == m.active.key) {
		m.refreshRoute(m.active.route)
	}
}

func (m *Model) refreshRoute(route string) {
	if m.active == nil || m.active.route != route {
		return
	}
	if err := m.active.refresh(); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) navigate(route string) {
	got, err := m.router.Navigate(route)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.search = false
	m.dialog.Blur()
	switch {
	case got == route:
		m.setStatus("", false)
	case route == RouteCart:
		m.setStatus(m.bundle.T("cart.empty"), false)
	case route == RouteBookmarks:
		m.setStatus(m.bundle.T("bookmarks.login"), false)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m *Model) onKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.helpPane != nil:
		if key == "esc" || key == "?" || key == "q" {
			m.helpPane = nil
			return m, nil
		}
		return m, m.helpPane.Update(k)
	case m.detail != nil:
		if key == "esc" || key == "enter" || key == "q" {
			m.detail = nil
			return m, nil
		}
		return m, m.detail.Update(k)
	case m.search:
		return m.onSearchKey(k)
	case m.Route() == RouteLogin:
		return m.onLoginKey(k)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.helpPane = help.New(help.Keys(), m.paneWidth(), m.paneHeight(), m.opts.MarkdownStyle)
	case "1", "2", "3", "4":
		m.navigate(routeOrder[int(key[0]-'1')])
	case "tab":
		m.navigate(m.nextRoute())
	case "ctrl+l":
		m.logout()
	case "/":
		if m.Route() == RouteSearch {
			m.search = true
			m.dialog.SetValue(m.query)
			m.dialog.CursorEnd()
			return m, m.dialog.Focus()
		}
	case "j", "down":
		if m.active != nil {
			m.active.move(1)
		}
	case "k", "up":
		if m.active != nil {
			m.active.move(-1)
		}
	case "enter":
		if it, ok := m.selected(); ok {
			m.detail = help.New(detailMarkdown(it, m.bundle), m.paneWidth(), m.paneHeight(), m.opts.MarkdownStyle)
		}
	case "a":
		return m, m.addToCart()
	case "b":
		return m, m.bookmark()
	case "x":
		return m, m.removeSelected()
	}
	return m, nil
}

func (m *Model) onSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "enter":
		m.search = false
		m.dialog.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.Update(k)
	if q := m.dialog.Value(); q != m.query {
		m.query = q
		m.refreshRoute(RouteSearch)
	}
	return m, cmd
}

func (m *Model) onLoginKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.navigate(RouteSearch)
		return m, nil
	case "ctrl+l":
		m.logout()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.login.Value())
		if err := m.svc.Login(name); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.refreshHeader()
		m.navigate(RouteBookmarks)
		m.setStatus(m.bundle.T("login.welcome", name), false)
		return m, nil
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(k)
	return m, cmd
}

func (m *Model) nextRoute() string {
	for i, r := range routeOrder {
		if r == m.Route() {
			return routeOrder[(i+1)%len(routeOrder)]
		}
	}
	return RouteSearch
}

func (m *Model) selected() (item.Item, bool) {
	if m.active == nil {
		return item.Item{}, false
	}
	return m.active.selected()
}

// statusCmd runs fn off the update loop and reports its outcome as a StatusMsg.
func statusCmd(fn func() events.StatusMsg) tea.Cmd {
	return func() tea.Msg { return fn() }
}

func (m *Model) addToCart() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	ctx, cart, b := m.ctx, m.svc.Cart, m.bundle
	return statusCmd(func() events.StatusMsg {
		if err := cart.Append(ctx, it); err != nil {
			return events.StatusMsg{Text: err.Error(), Err: true}
		}
		return events.StatusMsg{Text: b.T("cart.added", it.Title)}
	})
}

func (m *Model) bookmark() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	if !m.svc.Session.IsAuthorized() {
		m.setStatus(m.bundle.T("login.required"), true)
		return nil
	}
	ctx, marks, b := m.ctx, m.svc.Bookmarks, m.bundle
	return statusCmd(func() events.StatusMsg {
		if err := marks.Append(ctx, it); err != nil {
			return events.StatusMsg{Text: err.Error(), Err: true}
		}
		return events.StatusMsg{Text: b.T("bookmarks.added", it.Title)}
	})
}

func (m *Model) removeSelected() tea.Cmd {
	switch m.Route() {
	case RouteCart:
		m.setStatus(m.bundle.T("cart.removed"), false)
	case RouteBookmarks:
		it, ok := m.selected()
		if !ok {
			return nil
		}
		ctx, svc, b := m.ctx, m.svc, m.bundle
		return statusCmd(func() events.StatusMsg {
			if err := svc.Unbookmark(ctx, it.ID); err != nil {
				return events.StatusMsg{Text: err.Error(), Err: true}
			}
			return events.StatusMsg{Text: b.T("bookmarks.removed", it.Title)}
		})
	}
	return nil
}

func (m *Model) logout() {
	if err := m.svc.Logout(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refreshHeader()
	if m.Route() == RouteBookmarks {
		m.navigate(RouteBookmarks)
	}
	m.setStatus(m.bundle.T("logout.done"), false)
}

func (m *Model) paneWidth() int  { return max(m.width*3/4, 1) }
func (m *Model) paneHeight() int { return max(m.height*3/4, 1) }

func (m *Model) resizePanes() {
	if m.helpPane != nil {
		m.helpPane.SetSize(m.paneWidth(), m.paneHeight())
	}
	if m.detail != nil {
		m.detail.SetSize(m.paneWidth(), m.paneHeight())
	}
	m.dialog.Width = max(m.width/2, 20)
}

func detailMarkdown(it item.Item, b *i18n.Bundle) string {
	var s strings.Builder
	fmt.Fprintf(&s, "# %s\n\n", it.Title)
	if !it.Timestamp.IsZero() {
		fmt.Fprintf(&s, "_%s_", it.Timestamp.Format("2006-01-02 15:04"))
		if it.Category != "" {
			fmt.Fprintf(&s, " · %s", it.Category)
		}
		s.WriteString("\n\n")
	}
	if it.Description != "" {
		s.WriteString(it.Description + "\n\n")
	}
	if it.Image != "" {
		fmt.Fprintf(&s, "<%s>\n\n", it.Image)
	}
	if len(it.Tags) > 0 {
		tags := make([]string, 0, len(it.Tags))
		for _, t := range it.Tags {
			tags = append(tags, "`#"+t+"`")
		}
		s.WriteString(strings.Join(tags, " ") + "\n\n")
	}
	s.WriteString("---\n\n" + b.T("detail.back") + "\n")
	return s.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	screen := lipgloss.JoinVertical(lipgloss.Left, m.header(), m.body(), m.footer())
	switch {
	case m.helpPane != nil:
		return overlay.Compose(screen, m.width, m.height, m.helpPane.View(),
			overlay.Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center})
	case m.detail != nil:
		return overlay.Compose(screen, m.width, m.height, m.detail.View(),
			overlay.Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center})
	case m.search:
		dialog := m.theme.Modal.Frame.Render(
			m.theme.Modal.Title.Render(m.bundle.T("search.title")) + "\n" + m.dialog.View())
		return overlay.Compose(screen, m.width, m.height, dialog,
			overlay.Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Top, MarginY: 2})
	}
	return screen
}

func (m *Model) header() string {
	titles := map[string]string{
		RouteSearch:    m.bundle.T("search.title"),
		RouteCart:      fmt.Sprintf("%s (%d)", m.bundle.T("cart.title"), m.cartLen),
		RouteBookmarks: m.bundle.T("bookmarks.title"),
		RouteLogin:     m.bundle.T("login.title"),
	}
	tabs := make([]string, 0, len(routeOrder))
	for i, r := range routeOrder {
		label := fmt.Sprintf("%d %s", i+1, titles[r])
		if r == m.Route() {
			tabs = append(tabs, m.theme.Header.ActiveTab.Render(label))
			continue
		}
		tabs = append(tabs, m.theme.Header.Tab.Render(label))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.user != "" {
		line += "  " + m.theme.Header.User.Render("@"+m.user)
	}
	return line + "\n"
}

func (m *Model) refreshHeader() {
	m.cartLen = m.svc.Cart.Len(m.ctx)
	m.user = m.svc.Session.Current().Name()
}

func (m *Model) body() string {
	if m.Route() == RouteLogin {
		return m.theme.Modal.Frame.Render(
			m.theme.Modal.Title.Render(m.bundle.T("login.title")) + "\n" + m.login.View())
	}
	if m.Route() == RouteSearch {
		switch m.state {
		case loadPending:
			return m.theme.List.Row.Render(m.spinner.View() + " " + m.bundle.T("catalog.loading"))
		case loadFailed:
			return m.theme.List.Error.Render(m.bundle.T("catalog.error") + "\n" + m.loadErr.Error())
		}
	}
	if m.active == nil {
		return ""
	}
	lines := m.active.lines(m.theme.List.Row.Render, m.theme.List.Selected.Render)
	if len(lines) == 0 {
		return m.theme.List.Empty.Render(m.bundle.T("search.empty"))
	}
	header := ""
	if m.Route() == RouteSearch {
		header = m.theme.Footer.Status.Render(m.bundle.T("search.results", len(lines)))
		if m.query != "" {
			header += m.theme.Footer.Status.Render(fmt.Sprintf(" · %q", m.query))
		}
		header += "\n"
	}
	return header + strings.Join(lines, "\n")
}

func (m *Model) footer() string {
	status := m.theme.Footer.Help.Render(m.bundle.T("help.footer"))
	if m.status != "" {
		style := m.theme.Footer.Status
		if m.statusErr {
			style = m.theme.List.Error
		}
		status = style.Render(m.status) + "\n" + status
	}
	return "\n" + status
}
