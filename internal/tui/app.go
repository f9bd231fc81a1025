// Package tui is the terminal front end of the onboarding wizard. It owns
// the screens and routes between them on each flow.Transition.
package tui

import (
	"context"
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/flow"
	"github.com/jask/truckfinder/internal/format"
	"github.com/jask/truckfinder/internal/store"
	"github.com/jask/truckfinder/internal/theme"
)

// Order form fields, in focus order.
const (
	fieldPickup = iota
	fieldDelivery
	fieldDate
	fieldTime
	fieldDescription
	fieldCount
)

// Model is the bubbletea model for the whole program.
type Model struct {
	ctx     context.Context
	store   *store.Store
	flow    *flow.Controller
	keys    keyMap
	help    help.Model
	theme   theme.Theme
	styles  theme.Styles
	spinner spinner.Model
	country string

	route  flow.Route
	params flow.VerificationParams
	order  *domain.Order

	phone     textinput.Model
	code      flow.CodeEntry
	profile   int
	name      textinput.Model
	form      [fieldCount]textinput.Model
	formFocus int

	busy    bool
	seq     int
	cancel  context.CancelFunc
	status  string
	isError bool
	width   int
}

// stepDoneMsg carries the result of a flow step run off the update loop.
type stepDoneMsg struct {
	seq  int
	tr   flow.Transition
	note string
	err  error
}

// Option configures a Model.
type Option func(*Model)

// WithCountryCode sets the prefix shown before the phone input.
func WithCountryCode(code string) Option {
	return func(m *Model) { m.country = code }
}

// New returns a model showing the controller's current route.
func New(ctx context.Context, st *store.Store, c *flow.Controller, opts ...Option) Model {
	m := Model{
		ctx:     ctx,
		store:   st,
		flow:    c,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		route:   c.Route(),
	}
	for _, o := range opts {
		o(&m)
	}

	m.phone = newInput("84 123 4567", 11)
	m.name = newInput("Enter your name", 80)
	placeholders := [fieldCount]string{
		"Enter the pickup address",
		"Enter the delivery address",
		"DD/MM/YYYY",
		"HH:MM",
		"Describe what will be transported",
	}
	limits := [fieldCount]int{200, 200, 10, 5, 500}
	for i := range m.form {
		m.form[i] = newInput(placeholders[i], limits[i])
	}

	m.applyTheme(st.Snapshot().DarkModeEnabled)
	m.focus()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	in.Width = 40
	// a blinking cursor schedules a timer on every keystroke
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Route returns the screen being shown.
func (m Model) Route() flow.Route { return m.route }

func (m *Model) applyTheme(dark bool) {
	m.theme = theme.For(dark)
	m.styles = theme.NewStyles(m.theme)
	m.spinner.Style = m.styles.Info
	m.help.Styles.ShortKey = m.styles.Secondary
	m.help.Styles.ShortDesc = m.styles.Muted
	m.help.Styles.ShortSeparator = m.styles.Muted
}

// focus gives keyboard focus to the inputs of the current route.
func (m *Model) focus() {
	m.phone.Blur()
	m.name.Blur()
	for i := range m.form {
		m.form[i].Blur()
	}
	switch m.route {
	case flow.RouteLogin:
		m.phone.Focus()
	case flow.RouteClientName:
		m.name.Focus()
	case flow.RouteCreateOrder:
		m.form[m.formFocus].Focus()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stepDoneMsg:
		return m.finish(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(m.store.ToggleTheme())
		return m, nil
	case key.Matches(msg, m.keys.Back):
		return m.back(), nil
	}
	if m.busy {
		return m, nil
	}

	switch m.route {
	case flow.RouteWelcome:
		return m.updateWelcome(msg)
	case flow.RouteLogin:
		return m.updateLogin(msg)
	case flow.RouteVerification:
		return m.updateVerification(msg)
	case flow.RouteProfileChoice:
		return m.updateProfileChoice(msg)
	case flow.RouteClientName:
		return m.updateClientName(msg)
	case flow.RouteCreateOrder:
		return m.updateCreateOrder(msg)
	default:
		if key.Matches(msg, m.keys.QuitLite) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// back cancels a running step. With nothing running it returns to the
// previous screen when the flow allows it.
func (m Model) back() Model {
	if m.busy {
		m.stop()
		m.setInfo("Cancelled")
		return m
	}
	if !m.flow.CanGoBack() {
		return m
	}
	tr, err := m.flow.Back()
	if err != nil {
		m.setError(err)
		return m
	}
	m.enter(tr)
	return m
}

// run executes step in a command with its own cancellable context.
func (m Model) run(step func(ctx context.Context) (flow.Transition, string, error)) (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.seq++
	m.busy = true
	m.cancel = cancel
	m.clearStatus()
	seq := m.seq
	cmd := func() tea.Msg {
		defer cancel()
		tr, note, err := step(ctx)
		return stepDoneMsg{seq: seq, tr: tr, note: note, err: err}
	}
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
}

func (m Model) finish(msg stepDoneMsg) Model {
	if msg.seq != m.seq || !m.busy {
		// a cancelled step can still have completed; follow the controller
		if msg.err == nil && msg.tr.Route != "" && m.flow.Route() == msg.tr.Route && m.route != msg.tr.Route {
			m.enter(msg.tr)
		}
		return m
	}
	m.busy = false
	m.cancel = nil
	switch {
	case errors.Is(msg.err, context.Canceled):
		m.setInfo("Cancelled")
	case msg.err != nil:
		m.setError(msg.err)
	case msg.tr.Route == "":
		m.setInfo(msg.note)
	default:
		m.enter(msg.tr)
	}
	return m
}

func (m *Model) enter(tr flow.Transition) {
	switch p := tr.Params.(type) {
	case flow.VerificationParams:
		m.params = p
		m.code = flow.CodeEntry{}
	case flow.SearchTrucksParams:
		o := p.Order
		m.order = &o
	}
	m.route = tr.Route
	m.clearStatus()
	m.focus()
}

func (m *Model) setError(err error) {
	var verr *flow.ValidationError
	if errors.As(err, &verr) {
		m.status = verr.Message
	} else {
		log.Printf("warn: %s: %v", m.route, err)
		m.status = "Something went wrong: " + err.Error()
	}
	m.isError = true
}

func (m *Model) setInfo(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) clearStatus() {
	m.status = ""
	m.isError = false
}

// ---------------------------------------------------------------------------
// Per-route input handling
// ---------------------------------------------------------------------------

func (m Model) updateWelcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		tr, err := m.flow.Start()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.enter(tr)
	case key.Matches(msg, m.keys.QuitLite):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		raw := m.phone.Value()
		return m.run(func(ctx context.Context) (flow.Transition, string, error) {
			tr, err := m.flow.SubmitPhone(ctx, raw)
			return tr, "", err
		})
	}
	var cmd tea.Cmd
	m.phone, cmd = m.phone.Update(msg)
	reformat(&m.phone, format.Phone)
	return m, cmd
}

func (m Model) updateVerification(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		params, code := m.params, m.code
		return m.run(func(ctx context.Context) (flow.Transition, string, error) {
			tr, err := m.flow.ConfirmCode(ctx, params, code)
			return tr, "", err
		})
	case key.Matches(msg, m.keys.Resend):
		params := m.params
		return m.run(func(ctx context.Context) (flow.Transition, string, error) {
			if err := m.flow.ResendCode(ctx, params); err != nil {
				return flow.Transition{}, "", err
			}
			return flow.Transition{}, "A new code has been sent", nil
		})
	case key.Matches(msg, m.keys.Delete):
		m.code.Backspace()
	case key.Matches(msg, m.keys.Left):
		m.code.SetFocus(m.code.Focus - 1)
	case key.Matches(msg, m.keys.Right):
		m.code.SetFocus(m.code.Focus + 1)
	case msg.Type == tea.KeyRunes:
		m.code.Input(string(msg.Runes))
	}
	return m, nil
}

var profiles = []domain.UserType{domain.UserTypeClient, domain.UserTypeTransporter}

func (m Model) updateProfileChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next, m.keys.Prev, m.keys.Left, m.keys.Right):
		m.profile = (m.profile + 1) % len(profiles)
	case key.Matches(msg, m.keys.Submit):
		tr, err := m.flow.ChooseProfile(profiles[m.profile])
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.enter(tr)
	}
	return m, nil
}

func (m Model) updateClientName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		name := m.name.Value()
		return m.run(func(ctx context.Context) (flow.Transition, string, error) {
			tr, err := m.flow.SubmitName(ctx, name)
			return tr, "", err
		})
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) updateCreateOrder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save),
		key.Matches(msg, m.keys.Submit) && m.formFocus == fieldCount-1:
		f := m.orderForm()
		return m.run(func(ctx context.Context) (flow.Transition, string, error) {
			tr, err := m.flow.SubmitOrder(ctx, f)
			return tr, "", err
		})
	case key.Matches(msg, m.keys.Next, m.keys.Submit):
		m.formFocus = (m.formFocus + 1) % fieldCount
		m.focus()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.formFocus = (m.formFocus + fieldCount - 1) % fieldCount
		m.focus()
		return m, nil
	}
	var cmd tea.Cmd
	in := &m.form[m.formFocus]
	*in, cmd = in.Update(msg)
	switch m.formFocus {
	case fieldDate:
		reformat(in, format.Date)
	case fieldTime:
		reformat(in, format.Time)
	}
	return m, cmd
}

func (m Model) orderForm() flow.OrderForm {
	return flow.OrderForm{
		PickupAddress:   m.form[fieldPickup].Value(),
		DeliveryAddress: m.form[fieldDelivery].Value(),
		Date:            m.form[fieldDate].Value(),
		Time:            m.form[fieldTime].Value(),
		Description:     m.form[fieldDescription].Value(),
	}
}

// reformat runs fn over the whole input value after every keystroke.
func reformat(in *textinput.Model, fn func(string) string) {
	v := in.Value()
	if f := fn(v); f != v {
		in.SetValue(f)
		in.CursorEnd()
	}
}
