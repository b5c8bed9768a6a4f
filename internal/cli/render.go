package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"docflow/internal/domain"
)

var (
	colorOverdue   = lipgloss.Color("#EF4444") // rojo
	colorImminent  = lipgloss.Color("#F59E0B") // ambar
	colorSoon      = lipgloss.Color("#06B6D4") // cian
	colorLater     = lipgloss.Color("#6B7280") // gris
	colorCompleted = lipgloss.Color("#10B981") // verde

	tagStyles = map[domain.Tier]lipgloss.Style{
		domain.TierOverdue:   lipgloss.NewStyle().Bold(true).Foreground(colorOverdue),
		domain.TierImminent:  lipgloss.NewStyle().Bold(true).Foreground(colorImminent),
		domain.TierSoon:      lipgloss.NewStyle().Foreground(colorSoon),
		domain.TierLater:     lipgloss.NewStyle().Foreground(colorLater),
		domain.TierCompleted: lipgloss.NewStyle().Foreground(colorCompleted),
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorLater)
)

const tagWidth = 16

func renderTag(u domain.Urgency) string {
	style, ok := tagStyles[u.Tier]
	if !ok {
		style = lipgloss.NewStyle()
	}
	label := u.Tag
	if u.Unparseable {
		label += "?"
	}
	return style.Width(tagWidth).Render(label)
}

func renderHeader(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}

func renderDocuments(w io.Writer, docs []domain.RankedDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay documentos."))
		return
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s %-6d %-16s %-22s %s\n",
			renderTag(d.Urgency), d.ID, d.Code, orDash(d.Deadline), d.Subject)
	}
}

func renderAssignments(w io.Writer, items []domain.RankedAssignment) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay asignaciones."))
		return
	}
	for _, a := range items {
		fmt.Fprintf(w, "%s %-6d usuario %-5d %-22s %s\n",
			renderTag(a.Urgency), a.ID, a.UserID, orDash(a.DueAt), a.Instruction)
	}
}

func renderProcesses(w io.Writer, items []domain.Process) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay procesos."))
		return
	}
	for _, p := range items {
		fmt.Fprintf(w, "%-6d %-16s %-22s %s\n", p.ID, p.Code, orDash(p.UpdatedAt), p.Description)
	}
}

func renderUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay usuarios."))
		return
	}
	for _, u := range users {
		state := "activo"
		if !u.IsActive {
			state = "inactivo"
		}
		fmt.Fprintf(w, "%-6d %-24s %-28s %-10s %s\n", u.ID, u.Name, orDash(u.Email), orDash(u.Role), state)
	}
}

func renderVersions(w io.Writer, versions []domain.Version) {
	if len(versions) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay versiones."))
		return
	}
	for _, v := range versions {
		final := ""
		if v.IsFinal {
			final = lipgloss.NewStyle().Foreground(colorCompleted).Render("final")
		}
		fmt.Fprintf(w, "%-6d %-22s %s %s\n", v.ID, orDash(v.ModifiedAt), v.Comment, final)
	}
}

func renderSession(w io.Writer, s domain.Session, valid bool, now time.Time) {
	switch {
	case !s.HasToken():
		fmt.Fprintln(w, "Sin sesion.")
	case s.ExpiresAt == nil:
		fmt.Fprintln(w, "Sesion activa, sin expiracion declarada.")
	case valid:
		fmt.Fprintf(w, "Sesion activa hasta %s (%s restantes).\n",
			s.ExpiresAt.Local().Format(time.DateTime), s.ExpiresAt.Sub(now).Round(time.Second))
	default:
		fmt.Fprintf(w, "Sesion vencida el %s.\n", s.ExpiresAt.Local().Format(time.DateTime))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
