package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/flow"
	"github.com/jask/truckfinder/internal/format"
)

func (m Model) View() string {
	var body string
	switch m.route {
	case flow.RouteWelcome:
		body = m.viewWelcome()
	case flow.RouteLogin:
		body = m.viewLogin()
	case flow.RouteVerification:
		body = m.viewVerification()
	case flow.RouteProfileChoice:
		body = m.viewProfileChoice()
	case flow.RouteClientName:
		body = m.viewClientName()
	case flow.RouteCreateOrder:
		body = m.viewCreateOrder()
	case flow.RouteSearchTrucks:
		body = m.viewSearchTrucks()
	case flow.RouteTransporterApplication:
		body = m.viewTransporterApplication()
	default:
		body = m.styles.Error.Render("unknown screen " + string(m.route))
	}

	parts := []string{body}
	if s := m.statusLine(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, m.styles.Footer.Render(m.help.ShortHelpView(m.keys.helpFor(m.route, m.flow.CanGoBack()))))

	app := m.styles.App
	if m.width > 0 {
		app = app.Width(m.width)
	}
	return app.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) statusLine() string {
	switch {
	case m.busy:
		return m.spinner.View() + " " + m.styles.Muted.Render(busyText(m.route))
	case m.status == "":
		return ""
	case m.isError:
		return m.styles.Error.Render(m.status)
	default:
		return m.styles.Success.Render(m.status)
	}
}

func busyText(r flow.Route) string {
	switch r {
	case flow.RouteLogin:
		return "Sending code..."
	case flow.RouteVerification:
		return "Checking code..."
	case flow.RouteClientName:
		return "Saving..."
	case flow.RouteCreateOrder:
		return "Creating order..."
	}
	return "Working..."
}

func (m Model) header(title, subtitle string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(title),
		m.styles.Subtitle.Render(subtitle),
		"",
	)
}

func (m Model) field(label string, in string, focused bool) string {
	box := m.styles.Input
	if focused {
		box = m.styles.Focused
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Label.Render(label), box.Render(in))
}

func (m Model) button(title string) string {
	return m.styles.Button.Render(title)
}

// ---------------------------------------------------------------------------
// Screens
// ---------------------------------------------------------------------------

func (m Model) viewWelcome() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header("Your logistics partner for hassle-free deliveries.",
			"Complete shipping solutions for every delivery you need."),
		m.button("Get started"),
	)
}

func (m Model) viewLogin() string {
	in := m.phone.View()
	if m.country != "" {
		in = m.styles.Muted.Render(m.country+" ") + in
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header("Truck Finder", "Sign in with your phone number"),
		m.field("Phone number", in, true),
		m.styles.Info.Render("You will receive a 6-digit code by SMS, e-mail or WhatsApp."),
		"",
		m.button("Send code"),
	)
}

func (m Model) viewVerification() string {
	slots := make([]string, flow.CodeLength)
	for i, s := range m.code.Slots {
		style := m.styles.CodeSlot
		if i == m.code.Focus {
			style = m.styles.CodeFocus
		}
		if s == "" {
			s = " "
		}
		slots[i] = style.Render(s)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header("Enter the code you received",
			fmt.Sprintf("We sent a 6-digit code to %s", m.params.PhoneNumber)),
		lipgloss.JoinHorizontal(lipgloss.Top, slots...),
		m.styles.Secondary.Render("Resend code (ctrl+r)"),
		"",
		m.button("Confirm"),
	)
}

func (m Model) viewProfileChoice() string {
	options := []struct{ title, desc string }{
		{"Client", "I need to ship goods"},
		{"Transporter", "I offer transport services"},
	}
	cards := make([]string, len(options))
	for i, o := range options {
		style := m.styles.Card
		if i == m.profile {
			style = m.styles.CardFocus
		}
		cards[i] = style.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Label.Render(o.title),
			m.styles.Muted.Render(o.desc),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{m.header("Welcome to Truck Finder", "Are you a client or a transporter?")}, cards...)...,
	)
}

func (m Model) viewClientName() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header("What is your name?", "Let's personalise your experience"),
		m.field("Full name", m.name.View(), true),
		"",
		m.button("Continue"),
	)
}

func (m Model) viewCreateOrder() string {
	labels := [fieldCount]string{"Pickup address", "Delivery address", "Date", "Time", "Cargo description"}
	rows := []string{m.header("Create order", "Fill in your delivery details")}
	for i := 0; i < fieldCount; i++ {
		if i == fieldDate {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
				m.field(labels[fieldDate], m.form[fieldDate].View(), m.formFocus == fieldDate),
				"  ",
				m.field(labels[fieldTime], m.form[fieldTime].View(), m.formFocus == fieldTime),
			))
			i++
			continue
		}
		rows = append(rows, m.field(labels[i], m.form[i].View(), m.formFocus == i))
	}
	rows = append(rows, "", m.button("Find drivers"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewSearchTrucks() string {
	if m.order == nil {
		return m.header("Searching for drivers", "No order selected")
	}
	o := m.order
	lines := []string{
		m.header("Searching for drivers", "We are looking for a truck near you"),
		m.styles.Body.Render(fmt.Sprintf("Order   %s", o.ID)),
		m.styles.Body.Render(fmt.Sprintf("From    %s", o.PickupAddress)),
		m.styles.Body.Render(fmt.Sprintf("To      %s", o.DeliveryAddress)),
		m.styles.Body.Render(fmt.Sprintf("When    %s %s", o.Date, o.Time)),
	}
	if strings.TrimSpace(o.Description) != "" {
		lines = append(lines, m.styles.Body.Render(fmt.Sprintf("Cargo   %s", o.Description)))
	}
	lines = append(lines,
		m.styles.Body.Render(fmt.Sprintf("Price   %s", format.Amount(o.Amount))),
		m.styles.Muted.Render(fmt.Sprintf("Status  %s", statusLabel(o.Status))),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewTransporterApplication() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header("Transporter application", "Registration for transporters is coming soon"),
		m.styles.Muted.Render("We will contact you at "+m.store.Snapshot().PhoneNumber),
	)
}

func statusLabel(s domain.OrderStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
