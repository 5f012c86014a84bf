package views

import (
	"fmt"
	"strings"
	"time"
)

const (
	DueDateLayout   = "Jan 2, 2006 15:04"
	NoDueDateText   = "No due date"
	maxDescLines    = 2
	maxDescLineRune = 52
)

type TaskRowData struct {
	ID          string
	Title       string
	Description string
	DueText     string
	Priority    string
	Completed   bool
}

type ListPanelData struct {
	FilterLabel string
	Rows        []TaskRowData
	SelectedID  string
	Collapsed   map[string]bool
	ErrorText   string
}

type EditorPanelData struct {
	Heading         string
	TitleView       string
	DescriptionView string
	Priority        string
	PriorityFocused bool
	DueView         string
	ErrorText       string
}

type DetailPanelData struct {
	ID              string
	Title           string
	Priority        string
	DueText         string
	CreatedText     string
	Completed       bool
	DescriptionView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// Sections lists the priority groups in display order.
var Sections = []string{"High", "Medium", "Low"}

func FormatDueDate(due *time.Time, loc *time.Location) string {
	if due == nil {
		return NoDueDateText
	}
	if loc == nil {
		loc = time.Local
	}
	return due.In(loc).Format(DueDateLayout)
}

// RenderTaskRow renders one task: priority marker, checkbox and title, up
// to two description lines, then the due date.
func RenderTaskRow(row TaskRowData, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	check := "[ ]"
	title := titleStyle.Render(row.Title)
	if row.Completed {
		check = "[x]"
		title = completedTitleStyle.Render(row.Title)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, priorityMarker(row.Priority), check, title))
	for _, line := range descriptionLines(row.Description) {
		b.WriteString("      " + descriptionStyle.Render(line) + "\n")
	}
	due := row.DueText
	if due == "" {
		due = NoDueDateText
	}
	b.WriteString("      " + dueStyle.Render(due))
	return b.String()
}

func RenderListPanel(data ListPanelData) string {
	grouped := make(map[string][]TaskRowData, len(Sections))
	for _, row := range data.Rows {
		grouped[sectionFor(row.Priority)] = append(grouped[sectionFor(row.Priority)], row)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks (%s):\n", data.FilterLabel))
	b.WriteString("actions: [a]add [enter]edit [space]done [d]delete [p]priority [f]filter [z]fold\n")
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks)")
		return b.String()
	}
	for _, section := range Sections {
		rows := grouped[section]
		if len(rows) == 0 {
			continue
		}
		if data.Collapsed[section] {
			b.WriteString(fmt.Sprintf("\n%s (%d, folded)\n", section, len(rows)))
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s (%d):\n", section, len(rows)))
		for _, row := range rows {
			b.WriteString(RenderTaskRow(row, row.ID == data.SelectedID) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderEditorPanel(data EditorPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Heading) + ":\n")
	b.WriteString("keys: [tab]next field [left/right]priority [ctrl+s]save [esc]cancel\n\n")
	b.WriteString("title:\n" + data.TitleView + "\n\n")
	b.WriteString("description:\n" + data.DescriptionView + "\n\n")
	b.WriteString("priority: " + renderPrioritySelector(data.Priority, data.PriorityFocused) + "\n\n")
	b.WriteString("due (YYYY-MM-DD [HH:MM]):\n" + data.DueView)
	if data.ErrorText != "" {
		b.WriteString("\n\n" + errorStyle.Render("error: "+data.ErrorText))
	}
	return b.String()
}

func RenderDetailPanel(data DetailPanelData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	state := "open"
	if data.Completed {
		state = "done"
	}
	return fmt.Sprintf("details:\ntitle: %s\npriority: %s\nstate: %s\ndue: %s\ncreated: %s\n\ndescription:\n%s",
		data.Title,
		data.Priority,
		state,
		data.DueText,
		data.CreatedText,
		data.DescriptionView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderPrioritySelector(current string, focused bool) string {
	parts := make([]string, 0, len(Sections))
	for i := len(Sections) - 1; i >= 0; i-- {
		label := Sections[i]
		mark := "( )"
		if label == sectionFor(current) {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+label)
	}
	out := strings.Join(parts, "  ")
	if focused {
		return "> " + out
	}
	return out
}

func sectionFor(priority string) string {
	switch priority {
	case "High", "Medium":
		return priority
	default:
		return "Low"
	}
}

// priorityMarker is a two-cell glyph; colour comes from the style only.
// High red, Medium yellow, anything else grey.
func priorityMarker(priority string) string {
	switch priority {
	case "High":
		return highMarkerStyle.Render("!!")
	case "Medium":
		return mediumMarkerStyle.Render(" !")
	default:
		return lowMarkerStyle.Render(" ·")
	}
}

func descriptionLines(desc string) []string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil
	}
	lines := strings.Split(desc, "\n")
	truncated := len(lines) > maxDescLines
	if truncated {
		lines = lines[:maxDescLines]
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		runes := []rune(line)
		if len(runes) > maxDescLineRune {
			line = string(runes[:maxDescLineRune-1]) + "…"
		} else if truncated && i == len(lines)-1 {
			line += " …"
		}
		out = append(out, line)
	}
	return out
}
