package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/client"
	accountentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	postentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

const timeLayout = "Mon 02 Jan 2006 15:04"

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "63"}).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Width(6)

	busyStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"})

	todayStyle = cellStyle.Reverse(true)
)

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// renderTabs prints the tab bar with the active one highlighted
func renderTabs(state client.AppState) string {
	parts := make([]string, 0, len(client.Tabs))
	for _, t := range client.Tabs {
		if t == state.ActiveTab {
			parts = append(parts, titleStyle.Render("["+string(t)+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+string(t)+" "))
		}
	}
	return strings.Join(parts, " ") + "\n"
}

// renderMonth draws a Monday-first month grid. Days with posts show their count.
func renderMonth(state client.AppState, year int, month time.Month, loc *time.Location, b calendar.Buckets, stats calendar.Stats, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(renderTabs(state))
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", month, year)))
	sb.WriteString(mutedStyle.Render(" (" + loc.String() + ")"))
	sb.WriteString("\n\n")

	var header []string
	for _, d := range weekdays {
		header = append(header, cellStyle.Render(d))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	today := calendar.DateKey(now, loc)
	// Monday is column zero
	offset := (int(first.Weekday()) + 6) % 7

	var week []string
	for i := 0; i < offset; i++ {
		week = append(week, cellStyle.Render(""))
	}
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		key := day.Format(calendar.DateLayout)
		week = append(week, renderDay(day.Day(), len(b.Posts(key)), key == today))
		if len(week) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
			week = nil
		}
	}
	if len(week) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}

	sb.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	sb.WriteString("\n")
	sb.WriteString(renderStats(stats))
	return sb.String()
}

func renderDay(day, count int, today bool) string {
	label := fmt.Sprintf("%2d", day)
	if count > 0 {
		label += fmt.Sprintf("·%d", count)
	}

	switch {
	case today:
		return todayStyle.Render(label)
	case count > 0:
		return busyStyle.Render(label)
	default:
		return cellStyle.Render(label)
	}
}

func renderStats(s calendar.Stats) string {
	lines := []string{
		fmt.Sprintf("Posts this month: %d", s.TotalPosts),
		fmt.Sprintf("Active days:      %d", s.ActiveDays),
		fmt.Sprintf("Busiest day:      %d", s.MaxPerDay),
		fmt.Sprintf("Success rate:     %d%%", s.SuccessRate),
		mutedStyle.Render(fmt.Sprintf("scheduled %d · published %d · failed %d", s.Scheduled, s.Published, s.Failed)),
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderPosts lists posts in schedule order as stored
func renderPosts(state client.AppState, posts []postentity.Post, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(renderTabs(state))

	if len(posts) == 0 {
		sb.WriteString(mutedStyle.Render("No posts scheduled.") + "\n")
		return sb.String()
	}

	for _, p := range posts {
		when := "unscheduled"
		if p.HasSchedule() {
			when = p.ScheduledFor.In(loc).Format(timeLayout)
		}

		line := fmt.Sprintf("%s  %-9s  %s", when, p.Status, truncate(p.Caption, 48))
		if n := len(p.Hashtags()); n > 0 {
			line += fmt.Sprintf("  #%d", n)
		}
		if p.Status == postentity.StatusFailed {
			line = errorStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString(mutedStyle.Render("  " + p.ID))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderAccounts(state client.AppState, accounts []accountentity.Account) string {
	var sb strings.Builder
	sb.WriteString(renderTabs(state))

	if !state.Connected {
		sb.WriteString(mutedStyle.Render("No Instagram account connected. Run `instacal connect USERNAME`.") + "\n")
		return sb.String()
	}

	for _, a := range accounts {
		sb.WriteString(fmt.Sprintf("@%-30s", a.Username))
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  since %s", a.ID, a.ConnectedAt.Format("2006-01-02"))))
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncate cuts s to n runes, first line only
func truncate(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
